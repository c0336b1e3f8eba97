package ratings

// Trend is a least-squares line fitted through one season's ratings,
// the most complex transformation the display layer is allowed to do.
type Trend struct {
	Slope     float64
	Intercept float64
}

func (t Trend) At(x float64) float64 {
	return t.Slope*x + t.Intercept
}

// FitLine fits y = slope*x + intercept through the given points. The
// second return is false when fewer than two points are given or all x
// values coincide.
func FitLine(xs, ys []float64) (Trend, bool) {
	n := len(xs)
	if n < 2 || len(ys) != n {
		return Trend{}, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, den float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		num += dx * (ys[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return Trend{}, false
	}

	slope := num / den
	return Trend{
		Slope:     slope,
		Intercept: meanY - slope*meanX,
	}, true
}

// SeasonTrends fits one line per season, with episodes numbered
// continuously across seasons so trends line up on a shared x axis.
func SeasonTrends(seasons [][]float64) []Trend {
	trends := make([]Trend, len(seasons))
	offset := 0
	for i, scores := range seasons {
		xs := make([]float64, len(scores))
		for j := range scores {
			xs[j] = float64(offset + j)
		}
		trend, ok := FitLine(xs, scores)
		if ok {
			trends[i] = trend
		}
		offset += len(scores)
	}
	return trends
}
