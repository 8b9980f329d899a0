package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is the document total as the operator sees it. It is edited as
// text, so it keeps the raw text and is sent as a JSON number only when the
// text is numeric.
type Amount string

// NewAmount formats a numeric total
func NewAmount(v float64) Amount {
	return Amount(strconv.FormatFloat(v, 'f', -1, 64))
}

// Float parses the amount. A comma is accepted as decimal separator.
// NaN and infinities are not amounts.
func (a Amount) Float() (float64, bool) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Display returns the text shown in the total field; an empty amount shows as 0
func (a Amount) Display() string {
	if strings.TrimSpace(string(a)) == "" {
		return "0"
	}
	return string(a)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if v, ok := a.Float(); ok {
		return json.Marshal(v)
	}
	return json.Marshal(string(a))
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding amount: %w", err)
		}
		*a = Amount(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding amount: %w", err)
	}
	*a = NewAmount(v)
	return nil
}
