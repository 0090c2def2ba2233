package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MaxTitleLength = 255
	MaxQuantity    = 32767
)

var (
	ErrValidation = errors.New("validation failed")

	minPrice = decimal.RequireFromString("0.01")
	maxPrice = decimal.RequireFromString("9999.99")
)

// ValidationError names the offending input field so the HTTP layer can
// report a field-scoped error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func ValidateQuantity(q int) error {
	if q < 1 || q > MaxQuantity {
		return invalid("quantity", fmt.Sprintf("must be between 1 and %d", MaxQuantity))
	}
	return nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("title", "this field may not be blank")
	}
	if len(title) > MaxTitleLength {
		return invalid("title", fmt.Sprintf("ensure this field has no more than %d characters", MaxTitleLength))
	}
	return nil
}

func (c *Collection) Validate() error {
	return validateTitle(c.Title)
}

func (p *Product) Validate() error {
	if err := validateTitle(p.Title); err != nil {
		return err
	}
	if strings.TrimSpace(p.Slug) == "" {
		return invalid("slug", "this field may not be blank")
	}
	if p.Price.LessThan(minPrice) {
		return invalid("price", "ensure this value is greater than or equal to 0.01")
	}
	if p.Price.GreaterThan(maxPrice) {
		return invalid("price", "ensure that there are no more than 6 digits in total")
	}
	if p.Price.Exponent() < -2 && !p.Price.Equal(p.Price.Round(2)) {
		return invalid("price", "ensure that there are no more than 2 decimal places")
	}
	if p.Inventory < 0 {
		return invalid("inventory", "ensure this value is greater than or equal to 0")
	}
	if p.CollectionID <= 0 {
		return invalid("collection", "this field is required")
	}
	return nil
}

func (p *Promotion) Validate() error {
	if strings.TrimSpace(p.Description) == "" {
		return invalid("description", "this field may not be blank")
	}
	if len(p.Description) > MaxTitleLength {
		return invalid("description", fmt.Sprintf("ensure this field has no more than %d characters", MaxTitleLength))
	}
	return nil
}

func (r *Review) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("name", "this field may not be blank")
	}
	if len(r.Name) > MaxTitleLength {
		return invalid("name", fmt.Sprintf("ensure this field has no more than %d characters", MaxTitleLength))
	}
	if strings.TrimSpace(r.Description) == "" {
		return invalid("description", "this field may not be blank")
	}
	return nil
}

func (i *ProductImage) Validate() error {
	if strings.TrimSpace(i.Image) == "" {
		return invalid("image", "no file was submitted")
	}
	if len(i.Image) > MaxTitleLength {
		return invalid("image", fmt.Sprintf("ensure this filename has at most %d characters", MaxTitleLength))
	}
	return nil
}

func (c *Customer) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return invalid("first_name", "this field may not be blank")
	}
	if strings.TrimSpace(c.LastName) == "" {
		return invalid("last_name", "this field may not be blank")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return invalid("email", "enter a valid email address")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return invalid("phone", "this field may not be blank")
	}
	if c.Membership == "" {
		c.Membership = MembershipBronze
	}
	if !c.Membership.IsValid() {
		return invalid("membership", fmt.Sprintf("%q is not a valid choice", c.Membership))
	}
	return nil
}
