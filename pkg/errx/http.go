package errx

// Detail is the transport-level shape of a single error, matching what
// clients consume: {loc, msg, code}. The first loc element is the request
// location, the second the offending field.
type Detail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Code string   `json:"code"`
}

// Detail converts the error to its transport detail representation.
func (e *Error) Detail() Detail {
	return Detail{
		Loc:  []string{string(e.Location), e.Field},
		Msg:  e.Message,
		Code: e.Code,
	}
}
