// Package batch runs one model against several templates.
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"Airside/internal/compliance"
	"Airside/internal/model"
)

type Input struct {
	Model     json.RawMessage `json:"model"`
	Templates []string        `json:"templates"`
}

type Entry struct {
	Template      string             `json:"template"`
	ZonesAdjusted int                `json:"zones_adjusted"`
	Warnings      int                `json:"warnings"`
	Report        *compliance.Report `json:"report,omitempty"`
	Error         string             `json:"error,omitempty"`
}

type Result struct {
	Model   string  `json:"model"`
	Entries []Entry `json:"entries"`
}

// Compare applies every template to its own copy of the model. A template
// that fails is reported in its entry; cancellation stops the batch.
func Compare(ctx context.Context, engine *compliance.Engine, in Input) (Result, error) {
	if len(in.Templates) == 0 {
		return Result{}, fmt.Errorf("no templates")
	}
	if len(in.Model) == 0 {
		return Result{}, fmt.Errorf("no model")
	}
	out := Result{Entries: make([]Entry, 0, len(in.Templates))}
	for _, template := range in.Templates {
		m, err := model.Decode(bytes.NewReader(in.Model))
		if err != nil {
			return Result{}, err
		}
		out.Model = m.Name

		entry := Entry{Template: template}
		rep, err := engine.Run(ctx, m, template)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return Result{}, err
		case err != nil:
			entry.Error = err.Error()
		default:
			entry.Report = rep
			entry.ZonesAdjusted = rep.ZonesAdjusted
			entry.Warnings = len(rep.Findings.Warnings)
		}
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}
