package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tallybook-dev/tallybook/internal/id"
)

// ErrSelfParent is returned when an account is made its own parent.
var ErrSelfParent = errors.New("account cannot be its own parent")

// CardDetails carries credit card billing metadata for liability accounts.
type CardDetails struct {
	Issuer     string
	ClosingDay int // day of month the statement closes, clamped to month length
	DueDay     int // day of month the payment is due
}

// Account is a node in the hierarchical chart of accounts. Accounts are
// never deleted; they are deactivated instead so history stays intact.
type Account struct {
	ID        string
	Code      string // colon-delimited, e.g. "Expenses:Food:Restaurant"
	Name      string
	Type      AccountType
	Currency  string
	ParentID  string // empty = root
	Active    bool
	Card      *CardDetails
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccountParams holds parameters for creating an Account.
type NewAccountParams struct {
	Code     string
	Name     string
	Type     AccountType
	Currency string
	ParentID string
	Card     *CardDetails
}

// NewAccount validates and creates an Account. The display name defaults to
// the last code segment when empty.
func NewAccount(p NewAccountParams) (*Account, error) {
	if err := ValidateAccountCode(p.Code); err != nil {
		return nil, err
	}
	if !p.Type.Valid() {
		return nil, fmt.Errorf("invalid account type %q", string(p.Type))
	}
	if err := ValidateCurrency(p.Currency); err != nil {
		return nil, err
	}
	if p.Card != nil {
		if err := validateCardDetails(p.Card); err != nil {
			return nil, err
		}
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		parts := strings.Split(p.Code, ":")
		name = parts[len(parts)-1]
	}
	var card *CardDetails
	if p.Card != nil {
		c := *p.Card
		card = &c
	}
	now := time.Now().UTC()
	return &Account{
		ID:        id.New(),
		Code:      p.Code,
		Name:      name,
		Type:      p.Type,
		Currency:  p.Currency,
		ParentID:  p.ParentID,
		Active:    true,
		Card:      card,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateAccountCode checks the colon-delimited code format: non-empty,
// every segment non-empty and limited to letters, digits, spaces, hyphens
// and underscores.
func ValidateAccountCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return errors.New("account code cannot be empty")
	}
	for _, part := range strings.Split(code, ":") {
		if strings.TrimSpace(part) == "" {
			return fmt.Errorf("account code %q has an empty segment", code)
		}
		for _, c := range part {
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			case c == ' ', c == '-', c == '_':
			default:
				return fmt.Errorf("account code segment %q contains invalid character %q", part, c)
			}
		}
	}
	return nil
}

func validateCardDetails(c *CardDetails) error {
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return fmt.Errorf("card closing day must be 1-31, got %d", c.ClosingDay)
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return fmt.Errorf("card due day must be 1-31, got %d", c.DueDay)
	}
	return nil
}

// Rename changes the account code. The display name follows when it matched
// the old leaf segment.
func (a *Account) Rename(newCode string) error {
	if err := ValidateAccountCode(newCode); err != nil {
		return err
	}
	oldParts := strings.Split(a.Code, ":")
	newParts := strings.Split(newCode, ":")
	if a.Name == oldParts[len(oldParts)-1] {
		a.Name = newParts[len(newParts)-1]
	}
	a.Code = newCode
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// ChangeParent reparents the account. Self-parenting is rejected.
func (a *Account) ChangeParent(newParentID string) error {
	if newParentID != "" && newParentID == a.ID {
		return ErrSelfParent
	}
	a.ParentID = newParentID
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Deactivate soft-deletes the account.
func (a *Account) Deactivate() {
	a.Active = false
	a.UpdatedAt = time.Now().UTC()
}

// Reactivate reverses a soft delete.
func (a *Account) Reactivate() {
	a.Active = true
	a.UpdatedAt = time.Now().UTC()
}

// IsRoot reports whether the account has no parent.
func (a *Account) IsRoot() bool { return a.ParentID == "" }

// IsChildOf reports whether parentID is the direct parent.
func (a *Account) IsChildOf(parentID string) bool {
	return parentID != "" && a.ParentID == parentID
}

// CodeParts splits the code into its hierarchy segments.
func (a *Account) CodeParts() []string { return strings.Split(a.Code, ":") }

// Depth is the number of hierarchy levels (1 = root).
func (a *Account) Depth() int { return len(a.CodeParts()) }

// IsCard reports whether the account carries card billing metadata.
func (a *Account) IsCard() bool { return a.Card != nil }

func (a *Account) String() string {
	s := fmt.Sprintf("%s (%s) [%s]", a.Code, a.Type, a.Currency)
	if !a.Active {
		s += " [INACTIVE]"
	}
	return s
}
