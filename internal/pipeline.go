package loadtop

import "context"

// LoadChart fetches one series from src and renders it onto target. The first
// failure is returned as is; nothing is retried.
func LoadChart(ctx context.Context, src Source, r *ChartRenderer, target *Surface) (ChartHandle, error) {
	series, err := src.FetchLoad(ctx)
	if err != nil {
		return nil, err
	}
	return r.RenderChart(series, target)
}
