package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type completionKind uint8

const (
	completionMissing completionKind = iota
	completionBool
	completionNumber
)

// Completion is the value of one tracker cell: missing, a checkbox, or a number.
type Completion struct {
	kind   completionKind
	flag   bool
	number float64
}

func Missing() Completion { return Completion{} }

func Bool(b bool) Completion { return Completion{kind: completionBool, flag: b} }

func Number(n float64) Completion { return Completion{kind: completionNumber, number: n} }

func (c Completion) IsMissing() bool { return c.kind == completionMissing }

// Done reports whether the cell counts as a completion. Missing, false and zero do not.
func (c Completion) Done() bool {
	switch c.kind {
	case completionBool:
		return c.flag
	case completionNumber:
		return c.number != 0
	}
	return false
}

func (c Completion) String() string {
	switch c.kind {
	case completionBool:
		return strconv.FormatBool(c.flag)
	case completionNumber:
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	}
	return "<missing>"
}

// ParseCompletion interprets a raw cell value coming from Notion, CSV or JSON.
// NaN and empty strings are missing; anything not boolean or numeric is malformed.
func ParseCompletion(v any) (Completion, error) {
	switch x := v.(type) {
	case nil:
		return Missing(), nil
	case Completion:
		return x, nil
	case bool:
		return Bool(x), nil
	case *bool:
		if x == nil {
			return Missing(), nil
		}
		return Bool(*x), nil
	case float64:
		return numberOrMissing(x), nil
	case *float64:
		if x == nil {
			return Missing(), nil
		}
		return numberOrMissing(*x), nil
	case float32:
		return numberOrMissing(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case string:
		return parseCompletionString(x)
	}
	return Completion{}, fmt.Errorf("%w: unsupported type %T", ErrMalformedObservation, v)
}

func numberOrMissing(f float64) Completion {
	if math.IsNaN(f) {
		return Missing()
	}
	return Number(f)
}

func parseCompletionString(s string) (Completion, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none":
		return Missing(), nil
	case "true", "yes":
		return Bool(true), nil
	case "false", "no":
		return Bool(false), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Completion{}, fmt.Errorf("%w: %q", ErrMalformedObservation, s)
	}
	return numberOrMissing(f), nil
}

type Observation struct {
	Date  time.Time
	Habit string
	Value Completion
}
