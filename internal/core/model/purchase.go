package model

import "time"

// Purchase records that a user has been granted full access
// to a document. Purchases are never revoked.
type Purchase interface {
	UserID() UserID
	DocumentID() DocumentID
	Reference() string
	GrantedAt() time.Time
}

type BasePurchase struct {
	userID     UserID
	documentID DocumentID
	reference  string
	grantedAt  time.Time
}

// DocumentID implements Purchase.
func (p *BasePurchase) DocumentID() DocumentID {
	return p.documentID
}

// GrantedAt implements Purchase.
func (p *BasePurchase) GrantedAt() time.Time {
	return p.grantedAt
}

// Reference implements Purchase.
func (p *BasePurchase) Reference() string {
	return p.reference
}

// UserID implements Purchase.
func (p *BasePurchase) UserID() UserID {
	return p.userID
}

var _ Purchase = &BasePurchase{}

func NewPurchase(userID UserID, documentID DocumentID, reference string, grantedAt time.Time) *BasePurchase {
	return &BasePurchase{
		userID:     userID,
		documentID: documentID,
		reference:  reference,
		grantedAt:  grantedAt,
	}
}
