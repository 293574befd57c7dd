package overlay

// Extrapolate 决定输入超出区间时的行为。
type Extrapolate int

const (
	Extend   Extrapolate = iota // 沿区间的斜率继续线性外推
	Clamp                       // 钳制到区间端点的输出值
	Identity                    // 直接返回输入值
)

// InterpolateOptions 分别配置左右两侧的外推方式，零值为两侧均 Extend。
type InterpolateOptions struct {
	Left  Extrapolate
	Right Extrapolate
}

// Interpolate 将 input 从 in 区间线性映射到 out 区间。
func Interpolate(input float64, in, out [2]float64, opts InterpolateOptions) float64 {
	if input < in[0] {
		switch opts.Left {
		case Clamp:
			return out[0]
		case Identity:
			return input
		}
	}
	if input > in[1] {
		switch opts.Right {
		case Clamp:
			return out[1]
		case Identity:
			return input
		}
	}
	span := in[1] - in[0]
	if span == 0 {
		if input < in[0] {
			return out[0]
		}
		return out[1]
	}
	t := (input - in[0]) / span
	return lerp(out[0], out[1], t)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
