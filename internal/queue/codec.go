package queue

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/unclebandit/outreach-scheduler/internal/model"
)

// TopicSendUpdates carries model.SendDelta payloads.
const TopicSendUpdates = "send_updates"

// DecodeDeltas accepts a single delta object or an array of them.
func DecodeDeltas(body []byte) ([]model.SendDelta, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	var deltas []model.SendDelta
	if body[0] == '[' {
		if err := json.Unmarshal(body, &deltas); err != nil {
			return nil, err
		}
	} else {
		var d model.SendDelta
		if err := json.Unmarshal(body, &d); err != nil {
			return nil, err
		}
		deltas = append(deltas, d)
	}

	for _, d := range deltas {
		if d.ID == "" {
			return nil, fmt.Errorf("delta without id")
		}
		if d.Status != nil && !d.Status.Valid() && *d.Status != model.SendStatusCancelled {
			return nil, fmt.Errorf("delta %s: unknown status %q", d.ID, *d.Status)
		}
	}
	return deltas, nil
}
