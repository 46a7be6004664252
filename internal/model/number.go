package model

import "encoding/json"

// Number is a JSON number that never fails to decode. The crawl backend may
// omit optional fields, send null, or emit a wrong-typed value; all of those
// decode as 0 so a single odd field cannot discard a whole response.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Float returns n as a float64.
func (n Number) Float() float64 {
	return float64(n)
}

// FloatPtr returns the value behind p, or 0 when p is nil.
func FloatPtr(p *Number) float64 {
	if p == nil {
		return 0
	}
	return float64(*p)
}
