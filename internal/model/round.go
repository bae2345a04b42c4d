package model

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Round mirrors one upstream contest round. Winners are only present
// when the upstream reported them and the winners fetch succeeded.
type Round struct {
	RoundID            string    `json:"roundId"`
	CommunityID        string    `json:"communityId"`
	Name               string    `json:"name"`
	Status             string    `json:"status"`
	Logo               string    `json:"logo"`
	TokenAddress       string    `json:"tokenAddress"`
	Denomination       string    `json:"denomination"`
	StartsAt           time.Time `json:"startsAt"`
	CreatedAt          time.Time `json:"createdAt"`
	AreWinnersReported bool      `json:"areWinnersReported"`
	Winners            []Winner  `json:"winners,omitempty"`
}

// Winner is one (participant, amount) pair attached to a round. The same
// fid may appear multiple times in a single round. Extra carries every
// other field the upstream reported for the entry, verbatim.
type Winner struct {
	Fid    int64
	Amount float64
	Extra  map[string]json.RawMessage
}

func (w Winner) MarshalJSON() ([]byte, error) {
	fields := make(map[string]interface{}, len(w.Extra)+2)
	for k, v := range w.Extra {
		fields[k] = v
	}
	fields["fid"] = w.Fid
	fields["amount"] = w.Amount
	return json.Marshal(fields)
}

func (w *Winner) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["fid"]; ok {
		if err := json.Unmarshal(raw, &w.Fid); err != nil {
			return fmt.Errorf("invalid winner fid: %w", err)
		}
		delete(fields, "fid")
	}
	if raw, ok := fields["amount"]; ok {
		if err := json.Unmarshal(raw, &w.Amount); err != nil {
			return fmt.Errorf("invalid winner amount: %w", err)
		}
		delete(fields, "amount")
	}
	if len(fields) > 0 {
		w.Extra = fields
	}

	return nil
}
