package job

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString accepts both JSON strings and JSON numbers. The source API
// sends row numbers and some codes as either, depending on the endpoint.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string {
	return strings.TrimSpace(string(s))
}

// RawPosting is one item of the disability job-offer feed, field names as published.
type RawPosting struct {
	Rno          FlexString `json:"rno" xml:"rno"`
	Rnum         FlexString `json:"rnum" xml:"rnum"`
	OfferregDt   FlexString `json:"offerregDt" xml:"offerregDt"`
	TermDate     FlexString `json:"termDate" xml:"termDate"`
	BusplaName   FlexString `json:"busplaName" xml:"busplaName"`
	JobNm        FlexString `json:"jobNm" xml:"jobNm"`
	EmpType      FlexString `json:"empType" xml:"empType"`
	EnterType    FlexString `json:"enterType" xml:"enterType"`
	SalaryType   FlexString `json:"salaryType" xml:"salaryType"`
	Salary       FlexString `json:"salary" xml:"salary"`
	ReqCareer    FlexString `json:"reqCareer" xml:"reqCareer"`
	ReqEduc      FlexString `json:"reqEduc" xml:"reqEduc"`
	CompAddr     FlexString `json:"compAddr" xml:"compAddr"`
	CntctNo      FlexString `json:"cntctNo" xml:"cntctNo"`
	RegagnName   FlexString `json:"regagnName" xml:"regagnName"`
	RegDt        FlexString `json:"regDt" xml:"regDt"`
	EnvBothHands FlexString `json:"envBothHands" xml:"envBothHands"`
	EnvEyesight  FlexString `json:"envEyesight" xml:"envEyesight"`
	EnvHandwork  FlexString `json:"envHandwork" xml:"envHandwork"`
	EnvLiftPower FlexString `json:"envLiftPower" xml:"envLiftPower"`
	EnvLstnTalk  FlexString `json:"envLstnTalk" xml:"envLstnTalk"`
	EnvStndWalk  FlexString `json:"envStndWalk" xml:"envStndWalk"`
}
