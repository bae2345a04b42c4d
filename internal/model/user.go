package model

// User is a derived projection over the round mirror, rebuilt from
// scratch on every aggregation and replaced wholesale on upsert.
type User struct {
	FarcasterID        int64     `json:"farcaster_id"`
	RoundsParticipated []int64   `json:"rounds_participated"`
	Winnings           []Winning `json:"winnings"`
	TotalEarnings      []Earning `json:"total_earnings"`
}

// Winning is one prize the user took, with a snapshot of the round it
// came from. The snapshot never carries the round's winners list.
type Winning struct {
	Amount float64 `json:"amount"`
	Round  Round   `json:"round"`
}

// Earning is the cumulative amount won in a single denomination.
type Earning struct {
	Denomination string  `json:"denomination"`
	Amount       float64 `json:"amount"`
}
