package model

// Bill status labels as they appear in the National Assembly OpenAPI.
// The label doubles as a progress key for the app's calendar view.
const (
	StatusSubmission        = "접수"
	StatusIntroduction      = "발의"
	StatusCommitteeReview   = "위원회 심사"
	StatusCommitteeReferral = "위원회 회부"
	StatusPlenaryReferral   = "본회의 부의"
	StatusPlenaryVote       = "본회의 의결"
	StatusPassed            = "가결"
	StatusGovTransfer       = "정부 이송"
	StatusProcessed         = "처리"
	StatusPromulgation      = "공포"
)

// BillSummary is one row from the bill list endpoint. Field names follow
// the OpenAPI column names so the snapshot stays compatible with the app's
// bundled asset. BillID is stable across fetches and is the sole
// deduplication key.
type BillSummary struct {
	BillID           string `json:"BILL_ID" firestore:"billId"`
	BillNo           string `json:"BILL_NO" firestore:"billNo"`
	Name             string `json:"BILL_NAME" firestore:"name"`
	Proposer         string `json:"PROPOSER" firestore:"proposer"`
	Committee        string `json:"COMMITTEE" firestore:"committee"`
	Status           string `json:"STATUS" firestore:"status"`
	ProposeDate      string `json:"PROPOSE_DT" firestore:"proposeDate"`
	CommitteeDate    string `json:"COMMITTEE_DT" firestore:"committeeDate"`
	PlenaryDate      string `json:"PLENARY_DT" firestore:"plenaryDate"`
	PromulgationDate string `json:"PROMULGATION_DT" firestore:"promulgationDate"`
}

// BillDetail is the full record from the detail endpoint. Missing fields
// decode to their zero values, so records never carry nulls.
type BillDetail struct {
	BillSummary
	Summary string `json:"SUMMARY" firestore:"summary"`
	Approve int    `json:"APPROVE" firestore:"approve"`
	Reject  int    `json:"REJECT" firestore:"reject"`
}

// PrimaryDate returns the date of the latest populated stage. Dates are
// YYYY-MM-DD strings, so lexicographic comparison is chronological.
func (b *BillSummary) PrimaryDate() string {
	switch {
	case b.PromulgationDate != "":
		return b.PromulgationDate
	case b.PlenaryDate != "":
		return b.PlenaryDate
	case b.CommitteeDate != "":
		return b.CommitteeDate
	default:
		return b.ProposeDate
	}
}
