// internal/domain/customer/entity.go
package customer

import (
	"errors"
	"strings"
	"time"
)

type DocumentType string

const (
	DocDNI      DocumentType = "dni"
	DocRUC      DocumentType = "ruc"
	DocCE       DocumentType = "ce"
	DocPassport DocumentType = "passport"
)

func IsValidDocumentType(d DocumentType) bool {
	switch d {
	case DocDNI, DocRUC, DocCE, DocPassport:
		return true
	}
	return false
}

var (
	ErrNotFound           = errors.New("customer: not found")
	ErrInvalidID          = errors.New("customer: invalid id")
	ErrInvalidOwnerID     = errors.New("customer: invalid ownerId")
	ErrInvalidName        = errors.New("customer: invalid name")
	ErrInvalidDocumentType = errors.New("customer: invalid document type")
)

// Customer is a directory record. The fulfillment core only reads it; quick
// creation exists for point-of-sale flows.
type Customer struct {
	ID             string
	OwnerID        string
	Name           string
	Email          string
	Phone          string
	DocumentType   DocumentType
	DocumentNumber string
	Address        string
	Active         bool
	CreatedAt      time.Time
}

func New(id, ownerID, name, email, phone string, docType DocumentType, docNumber, address string, now time.Time) (Customer, error) {
	c := Customer{
		ID:             strings.TrimSpace(id),
		OwnerID:        strings.TrimSpace(ownerID),
		Name:           strings.TrimSpace(name),
		Email:          strings.TrimSpace(email),
		Phone:          strings.TrimSpace(phone),
		DocumentType:   docType,
		DocumentNumber: strings.TrimSpace(docNumber),
		Address:        strings.TrimSpace(address),
		Active:         true,
		CreatedAt:      now.UTC(),
	}
	if c.ID == "" {
		return Customer{}, ErrInvalidID
	}
	if c.OwnerID == "" {
		return Customer{}, ErrInvalidOwnerID
	}
	if c.Name == "" {
		return Customer{}, ErrInvalidName
	}
	if c.DocumentType == "" {
		c.DocumentType = DocDNI
	}
	if !IsValidDocumentType(c.DocumentType) {
		return Customer{}, ErrInvalidDocumentType
	}
	return c, nil
}
