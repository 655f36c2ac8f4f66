package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/ferreteria/ordenes-api/pkg/codegen"
	"github.com/shopspring/decimal"
)

// phonePattern accepts an optional 56 country code (with or without +), an
// optional 9 mobile marker and eight digits.
var phonePattern = regexp.MustCompile(`^(\+?56)?9?\d{8}$`)

var maxQuantity = decimal.NewFromInt(1_000_000)

// NormalizePhone strips every space from phone
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}

// ValidPhone reports whether phone matches the accepted Chilean shapes
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// ItemInput is one line item as received from a caller. Quantity stays a
// decimal until validated so fractional input is reported per field.
type ItemInput struct {
	Product  string
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// SubmitOrderInput represents the input of OrderService.Submit
type SubmitOrderInput struct {
	Customer        string
	Address         string
	Phone           string
	District        string
	Region          string
	Items           []ItemInput
	OwnerID         *uint
	PreassignedCode string
}

// normalize trims every text field in place. The phone keeps its inner
// spaces here and is compacted only for matching.
func (in *SubmitOrderInput) normalize() {
	in.Customer = strings.TrimSpace(in.Customer)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	in.District = strings.TrimSpace(in.District)
	in.Region = strings.TrimSpace(in.Region)
	in.PreassignedCode = strings.TrimSpace(in.PreassignedCode)
	for i := range in.Items {
		in.Items[i].Product = strings.TrimSpace(in.Items[i].Product)
	}
}

// validate returns every problem found, or nil
func (in *SubmitOrderInput) validate() []apperror.FieldError {
	var errs []apperror.FieldError
	add := func(field, msg string) {
		errs = append(errs, apperror.FieldError{Field: field, Message: msg})
	}

	required := []struct{ field, value string }{
		{"customer", in.Customer},
		{"address", in.Address},
		{"district", in.District},
		{"region", in.Region},
	}
	for _, r := range required {
		if r.value == "" {
			add(r.field, r.field+" is required")
		}
	}

	if !ValidPhone(in.Phone) {
		add("phone", "phone must be 8 digits with optional +56 and 9 prefixes")
	}

	if len(in.Items) == 0 {
		add("items", "at least one item is required")
	}
	for i, it := range in.Items {
		if it.Product == "" {
			add(fmt.Sprintf("items[%d].product", i), "product is required")
		}
		if !it.Price.IsPositive() {
			add(fmt.Sprintf("items[%d].price", i), "price must be greater than 0")
		}
		switch {
		case !it.Quantity.IsPositive():
			add(fmt.Sprintf("items[%d].quantity", i), "quantity must be greater than 0")
		case !it.Quantity.IsInteger():
			add(fmt.Sprintf("items[%d].quantity", i), "quantity must be a whole number")
		case it.Quantity.GreaterThan(maxQuantity):
			add(fmt.Sprintf("items[%d].quantity", i), "quantity is too large")
		}
	}

	if in.PreassignedCode != "" && !codegen.Order.Valid(in.PreassignedCode) {
		add("code", "code must look like OC-0001")
	}

	return errs
}

// lineItems converts validated input into stored line items
func (in *SubmitOrderInput) lineItems() []entity.LineItem {
	items := make([]entity.LineItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = entity.LineItem{
			Product:  it.Product,
			Price:    it.Price,
			Quantity: int(it.Quantity.IntPart()),
		}
	}
	return items
}
