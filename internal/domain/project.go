package domain

// Segment joins two consecutive revealed observations.
type Segment struct {
	// Index is the position of the first observation in the full series.
	Index     int   `json:"index"`
	From      Point `json:"from"`
	To        Point `json:"to"`
	ColorFrom Color `json:"color_from"`
	ColorTo   Color `json:"color_to"`
}

// Vertex is a single positioned, colored observation.
type Vertex struct {
	Index    int   `json:"index"`
	Position Point `json:"position"`
	Color    Color `json:"color"`
}

// Project maps the revealed prefix of series to line segments. Fewer than two
// revealed observations produce no segments. The cursor's progress is clamped
// against the series length, so a stale cursor never panics.
//
// Project only reads its arguments: equal inputs always give equal output.
func Project(series Series, cursor RevealCursor, layout Layout) []Segment {
	visible := visiblePrefix(series, cursor)
	if len(visible) < 2 {
		return nil
	}

	ring, _ := layout.(RingLayout)
	total := series.Len()

	segments := make([]Segment, 0, len(visible)-1)
	for i := 0; i+1 < len(visible); i++ {
		cur, next := visible[i], visible[i+1]
		from := series.Months[cur.MonthIndex]

		toAngle := series.Months[next.MonthIndex].Angle
		if ring.FollowRing {
			toAngle = from.NextAngle
		}

		segments = append(segments, Segment{
			Index:     i,
			From:      layout.place(from.Angle, Radius(layout, cur.Value), i, total),
			To:        layout.place(toAngle, Radius(layout, next.Value), i+1, total),
			ColorFrom: ColorFor(layout, cur.Value),
			ColorTo:   ColorFor(layout, next.Value),
		})
	}
	return segments
}

// Points maps each revealed observation to a vertex, the form consumed by
// line-strip renderers.
func Points(series Series, cursor RevealCursor, layout Layout) []Vertex {
	visible := visiblePrefix(series, cursor)
	total := series.Len()

	vertices := make([]Vertex, len(visible))
	for i, obs := range visible {
		angle := series.Months[obs.MonthIndex].Angle
		vertices[i] = Vertex{
			Index:    i,
			Position: layout.place(angle, Radius(layout, obs.Value), i, total),
			Color:    ColorFor(layout, obs.Value),
		}
	}
	return vertices
}

func visiblePrefix(series Series, cursor RevealCursor) []Observation {
	n := clampProgress(cursor.Progress(), series.Len())
	return series.Observations[:n:n]
}
