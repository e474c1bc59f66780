package datagokr

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"disability-jobs/internal/domain/job"
)

var successCodes = map[string]bool{"00": true, "0": true, "0000": true}

type envelope struct {
	ResultCode string
	ResultMsg  string
	Items      []job.RawPosting
	TotalCount int
}

type jsonResponse struct {
	Response struct {
		Header struct {
			ResultCode job.FlexString `json:"resultCode"`
			ResultMsg  job.FlexString `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items      jsonItems      `json:"items"`
			NumOfRows  job.FlexString `json:"numOfRows"`
			PageNo     job.FlexString `json:"pageNo"`
			TotalCount job.FlexString `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// jsonItems accepts items as {"item": [...]}, {"item": {...}}, a bare array,
// or the empty string/null the gateway sends for an empty page. Any other
// shape is an error so a changed payload is not mistaken for zero records.
type jsonItems []job.RawPosting

func (it *jsonItems) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var wrapper struct {
			Item json.RawMessage `json:"item"`
		}
		if err := json.Unmarshal(b, &wrapper); err != nil {
			return err
		}
		b = bytes.TrimSpace(wrapper.Item)
	}

	switch {
	case isEmptyJSON(b):
		*it = nil
	case b[0] == '[':
		var list []job.RawPosting
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*it = list
	case b[0] == '{':
		var one job.RawPosting
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*it = []job.RawPosting{one}
	default:
		return fmt.Errorf("unexpected items value %s", snippet(b))
	}
	return nil
}

// isEmptyJSON reports whether b is absent, null, or a blank string.
func isEmptyJSON(b []byte) bool {
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return true
	}
	if b[0] != '"' {
		return false
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return false
	}
	return strings.TrimSpace(s) == ""
}

// xmlResponse decodes both the regular <response> document and the gateway's
// <OpenAPI_ServiceResponse> error document; the root name is not constrained.
type xmlResponse struct {
	XMLName xml.Name
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items      []job.RawPosting `xml:"items>item"`
		NumOfRows  string           `xml:"numOfRows"`
		PageNo     string           `xml:"pageNo"`
		TotalCount string           `xml:"totalCount"`
	} `xml:"body"`
	Gateway *struct {
		ErrMsg     string `xml:"errMsg"`
		AuthMsg    string `xml:"returnAuthMsg"`
		ReasonCode string `xml:"returnReasonCode"`
	} `xml:"cmmMsgHeader"`
}

// decodeEnvelope sniffs the body and decodes it as XML or JSON, then checks
// the result code.
func decodeEnvelope(body []byte) (*envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &MalformedResponseError{Err: errors.New("empty body")}
	}

	var env *envelope
	var err error
	switch trimmed[0] {
	case '<':
		env, err = decodeXML(trimmed)
	case '{':
		env, err = decodeJSON(trimmed)
	default:
		return nil, &MalformedResponseError{Snippet: snippet(trimmed)}
	}
	if err != nil {
		return nil, err
	}

	if !successCodes[env.ResultCode] {
		return nil, &APIError{Code: env.ResultCode, Message: env.ResultMsg}
	}
	return env, nil
}

func decodeJSON(b []byte) (*envelope, error) {
	var r jsonResponse
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, &MalformedResponseError{Snippet: snippet(b), Err: err}
	}
	h := r.Response.Header
	if h.ResultCode.String() == "" {
		return nil, &MalformedResponseError{Snippet: snippet(b), Err: errors.New("missing response.header.resultCode")}
	}
	return &envelope{
		ResultCode: h.ResultCode.String(),
		ResultMsg:  h.ResultMsg.String(),
		Items:      r.Response.Body.Items,
		TotalCount: atoi(r.Response.Body.TotalCount.String()),
	}, nil
}

func decodeXML(b []byte) (*envelope, error) {
	var r xmlResponse
	if err := xml.Unmarshal(b, &r); err != nil {
		return nil, &MalformedResponseError{Snippet: snippet(b), Err: err}
	}
	if r.Gateway != nil {
		msg := r.Gateway.AuthMsg
		if msg == "" {
			msg = r.Gateway.ErrMsg
		}
		return nil, &APIError{Code: r.Gateway.ReasonCode, Message: msg}
	}
	code := job.FlexString(r.Header.ResultCode).String()
	if code == "" {
		return nil, &MalformedResponseError{Snippet: snippet(b), Err: errors.New("missing response.header.resultCode")}
	}
	return &envelope{
		ResultCode: code,
		ResultMsg:  job.FlexString(r.Header.ResultMsg).String(),
		Items:      r.Body.Items,
		TotalCount: atoi(job.FlexString(r.Body.TotalCount).String()),
	}, nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func snippet(b []byte) string {
	const max = 200
	if len(b) <= max {
		return string(b)
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut])
}
