package geometry

import "math"

// CurveConfig shapes the quadratic curves drawn for condition links.
type CurveConfig struct {
	// ApexFactor scales half the chord length to the distance between chord
	// midpoint and control point. √3 yields an equilateral triangle.
	ApexFactor  float64
	ArrowLength float64
	// ArrowAngle is the angle between each arrow wing and the curve tangent.
	ArrowAngle float64
}

var DefaultCurveConfig = CurveConfig{
	ApexFactor:  math.Sqrt(3),
	ArrowLength: 10,
	ArrowAngle:  math.Pi / 6,
}

// Curve is a quadratic Bézier from Start to End with one control point, plus
// the two outer points of the arrow head at End.
type Curve struct {
	Start, End, Control   Point
	ArrowLeft, ArrowRight Point
	// Degenerate is set when source and target share a center; all points are
	// then the shared center.
	Degenerate bool
}

func (conf CurveConfig) withDefaults() CurveConfig {
	if conf.ApexFactor == 0 {
		conf.ApexFactor = DefaultCurveConfig.ApexFactor
	}
	if conf.ArrowLength == 0 {
		conf.ArrowLength = DefaultCurveConfig.ArrowLength
	}
	if conf.ArrowAngle == 0 {
		conf.ArrowAngle = DefaultCurveConfig.ArrowAngle
	}
	return conf
}

// ControlPoint returns the apex of the isosceles triangle over start/end that
// lies on the opposite side of the chord from reference. A reference on the
// chord line picks the clockwise side.
func ControlPoint(start, end, reference Point, apexFactor float64) Point {
	offsetX, offsetY := end.X()-start.X(), end.Y()-start.Y()
	centerX, centerY := (start.X()+end.X())/2, (start.Y()+end.Y())/2
	if offsetX == 0 && offsetY == 0 {
		return Point{centerX, centerY}
	}
	theta := Angle(offsetY, offsetX)
	length := Distance(centerX, centerY, end.X(), end.Y()) * apexFactor
	side := Sign(Cross(offsetX, offsetY, reference.X()-start.X(), reference.Y()-start.Y()))
	if side == 0 {
		side = 1
	}
	rotated := theta - side*math.Pi/2
	return Point{centerX + math.Cos(rotated)*length, centerY + math.Sin(rotated)*length}
}

// ConditionCurve computes the curved arrow from source to target. The curve
// bows away from reference, usually the tree root, so that it does not cut
// through the bulk of the tree.
func ConditionCurve(source, target Circle, reference Point, conf CurveConfig) Curve {
	conf = conf.withDefaults()
	start, end, ok := ClipChord(source, target)
	if !ok {
		c := Point{source.Center.X(), source.Center.Y()}
		return Curve{Start: c, End: c, Control: c, ArrowLeft: c, ArrowRight: c, Degenerate: true}
	}
	control := ControlPoint(source.Center, target.Center, reference, conf.ApexFactor)
	curve := Curve{Start: start, End: end, Control: control}
	// tangent at the end of a quadratic Bézier points from the control point to the end
	tx, ty := control.X()-end.X(), control.Y()-end.Y()
	if tx == 0 && ty == 0 {
		tx, ty = start.X()-end.X(), start.Y()-end.Y()
	}
	theta := Angle(ty, tx)
	curve.ArrowLeft = Point{
		end.X() + math.Cos(theta+conf.ArrowAngle)*conf.ArrowLength,
		end.Y() + math.Sin(theta+conf.ArrowAngle)*conf.ArrowLength,
	}
	curve.ArrowRight = Point{
		end.X() + math.Cos(theta-conf.ArrowAngle)*conf.ArrowLength,
		end.Y() + math.Sin(theta-conf.ArrowAngle)*conf.ArrowLength,
	}
	return curve
}
