// Package domain models monthly global temperature anomalies and projects
// them onto a polar "climate spiral".
//
// # Data Source
//
// The series comes from the NASA GISS Surface Temperature Analysis (GISTEMP)
// global means table, a comma-delimited export available at
// https://data.giss.nasa.gov/gistemp/. The file starts with a title line
// ("Land-Ocean: Global Means"), followed by a header row and one row per year:
//
//	Year,Jan,Feb,Mar,Apr,May,Jun,Jul,Aug,Sep,Oct,Nov,Dec,J-D,D-N,DJF,...
//	1880,-.18,-.24,-.09,-.16,-.10,-.21,-.18,-.10,-.15,-.23,-.22,-.18,...
//
// Only header cells 1..12 are read as month labels, in file order. Seasonal
// and annual columns past the twelfth month are ignored.
//
// # Missing Values
//
// GISTEMP marks months that have not been reported yet with "***". Any month
// cell that is empty, does not parse as a finite float, or parses to exactly
// zero is dropped without error. Dropping zero matches the behaviour of the
// published spiral front ends, which treated a zero anomaly as missing; it
// also discards genuine zero-anomaly months and is kept only for output parity.
// A row whose year cell is empty or not an integer is skipped entirely.
//
// # Geometry
//
// Month i sits at angle 2π·i/12 − π/2: January at the top, then clockwise in
// screen coordinates (y grows downwards). An anomaly v is drawn at radius
//
//	zeroRadius + v·(oneRadius − zeroRadius)
//
// so v=0 lies on the zero circle and v=1 on the one circle. oneRadius defaults
// to 2·zeroRadius, which reduces the formula to zeroRadius·(1+v).
//
// The ring layout is 2D. The helix layout adds height: observation i of n is
// placed at y = spiralHeight·(i/n − 0.5), with i counted over the full series
// so revealing more points never moves the ones already drawn.
//
// # Colors
//
// Two presets exist because the front ends disagree:
//
//	diverging: t=(v+1)/2; blue→white for t<0.5, white→red above
//	radial:    blue→white inside the zero circle, white→red up to the one
//	           circle, solid red beyond
//
// Neither preset clamps its input. Anomalies far outside [-1, 1] extrapolate
// past the documented colors; callers that need saturated output must clamp
// first.
//
// # Reveal Cursor
//
// A [RevealCursor] counts how many leading observations are drawn. It is the
// only mutable value in the package and is clamped to [0, len(observations)].
// [Project] is a pure function of the series, the cursor's progress and the
// layout.
package domain
