package service

import (
	"testing"

	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPhone(t *testing.T) {
	accepted := []string{
		"+56912345678",
		"56912345678",
		"912345678",
		"12345678",
		"+56 9 1234 5678",
		"  912345678 ",
	}
	for _, phone := range accepted {
		assert.True(t, ValidPhone(phone), phone)
	}

	rejected := []string{
		"",
		"12345",
		"+1234567890123",
		"9123456789a",
		"+56-9-1234-5678",
		"+5691234567890",
	}
	for _, phone := range rejected {
		assert.False(t, ValidPhone(phone), phone)
	}
}

func validInput() *SubmitOrderInput {
	return &SubmitOrderInput{
		Customer: "Ana",
		Address:  "Calle 1",
		Phone:    "+56912345678",
		District: "Centro",
		Region:   "RM",
		Items: []ItemInput{
			{Product: "Hammer", Price: decimal.NewFromInt(1000), Quantity: decimal.NewFromInt(2)},
		},
	}
}

func fieldNames(errs []apperror.FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidateAcceptsCompleteInput(t *testing.T) {
	in := validInput()
	in.normalize()
	assert.Empty(t, in.validate())
}

func TestValidateReportsEveryField(t *testing.T) {
	in := &SubmitOrderInput{
		Customer: "   ",
		Phone:    "12345",
		Items: []ItemInput{
			{Product: "", Price: decimal.Zero, Quantity: decimal.Zero},
			{Product: "Nails", Price: decimal.NewFromInt(-5), Quantity: decimal.NewFromInt(3)},
		},
		PreassignedCode: "OC-1",
	}
	in.normalize()

	assert.ElementsMatch(t, []string{
		"customer", "address", "district", "region", "phone",
		"items[0].product", "items[0].price", "items[0].quantity",
		"items[1].price",
		"code",
	}, fieldNames(in.validate()))
}

func TestValidateRequiresItems(t *testing.T) {
	in := validInput()
	in.Items = nil
	in.normalize()
	assert.Equal(t, []string{"items"}, fieldNames(in.validate()))
}

func TestNormalizeTrims(t *testing.T) {
	in := validInput()
	in.Customer = "  Ana  "
	in.Phone = " +56 9 1234 5678 "
	in.Items[0].Product = " Hammer "
	in.normalize()

	assert.Equal(t, "Ana", in.Customer)
	assert.Equal(t, "+56 9 1234 5678", in.Phone)
	assert.Equal(t, "Hammer", in.Items[0].Product)
	assert.Empty(t, in.validate())
}

func TestValidateQuantityMustBeWhole(t *testing.T) {
	in := validInput()
	in.Items = append(in.Items,
		ItemInput{Product: "Cable", Price: decimal.NewFromInt(10), Quantity: decimal.RequireFromString("1.5")},
		ItemInput{Product: "Nails", Price: decimal.NewFromInt(1), Quantity: decimal.NewFromInt(5_000_000)},
	)
	in.normalize()

	errs := in.validate()
	assert.Equal(t, []string{"items[1].quantity", "items[2].quantity"}, fieldNames(errs))
	assert.Equal(t, "quantity must be a whole number", errs[0].Message)
}

func TestLineItemsConvertQuantity(t *testing.T) {
	in := validInput()
	in.Items[0].Quantity = decimal.RequireFromString("3.0")
	in.normalize()
	require.Empty(t, in.validate())

	items := in.lineItems()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}
