package simulation

import "math"

// Summary aggregates a run's steps.
type Summary struct {
	Buys         int     `json:"buys"`
	Sells        int     `json:"sells"`
	ReserveIn    float64 `json:"reserve_in"`
	ReserveOut   float64 `json:"reserve_out"`
	TokensMinted float64 `json:"tokens_minted"`
	TokensBurned float64 `json:"tokens_burned"`
	StartPrice   float64 `json:"start_price"`
	EndPrice     float64 `json:"end_price"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	// ReserveDrift is the final reserve minus what the flows alone explain:
	// final - (initial + in - out). Zero up to rounding for a consistent run.
	ReserveDrift float64 `json:"reserve_drift"`
	// NetReserve is in - out; positive means the market maker kept reserve.
	NetReserve float64 `json:"net_reserve"`
	Halted     bool    `json:"halted"`
}

// Summary computes the aggregate view of the run.
func (r *Result) Summary() Summary {
	s := Summary{
		StartPrice: r.Initial.TokenPrice,
		EndPrice:   r.Final.TokenPrice,
		MinPrice:   r.Initial.TokenPrice,
		MaxPrice:   r.Initial.TokenPrice,
		Halted:     r.Halted(),
	}

	for _, step := range r.Steps {
		switch step.Side {
		case SideBuy:
			s.Buys++
			s.ReserveIn += step.Reserve
			s.TokensMinted += step.Tokens
		case SideSell:
			s.Sells++
			s.ReserveOut += step.Reserve
			s.TokensBurned += step.Tokens
		}
		s.MinPrice = math.Min(s.MinPrice, step.State.TokenPrice)
		s.MaxPrice = math.Max(s.MaxPrice, step.State.TokenPrice)
	}

	s.NetReserve = s.ReserveIn - s.ReserveOut
	s.ReserveDrift = r.Final.ReserveBalance - (r.Initial.ReserveBalance + s.NetReserve)
	return s
}
