package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/sahyog/pkg/validate"
)

type donationInput struct {
	FundraiserID  string  `json:"fundraiser_id" validate:"required"`
	DonorName     string  `json:"donor_name" validate:"required,min=2,max=100"`
	Amount        float64 `json:"amount" validate:"required,numeric,gte=1"`
	TransactionID string  `json:"transaction_id" validate:"required,min=3"`
	Note          *string `json:"note" validate:"nullable,max=10"`
}

func TestStructValid(t *testing.T) {
	errs := validate.Struct(donationInput{
		FundraiserID:  "657000000000000000000000",
		DonorName:     "Ravi",
		Amount:        100,
		TransactionID: "UPI-1",
	})
	assert.False(t, validate.HasErrors(errs))
}

func TestStructRequired(t *testing.T) {
	errs := validate.Struct(donationInput{})

	assert.Contains(t, errs, "fundraiser_id")
	assert.Contains(t, errs, "donor_name")
	assert.Contains(t, errs, "amount")
	assert.Contains(t, errs, "transaction_id")
	assert.NotContains(t, errs, "note")
}

func TestStructBounds(t *testing.T) {
	errs := validate.Struct(donationInput{
		FundraiserID:  "x",
		DonorName:     "R",
		Amount:        0.5,
		TransactionID: "ab",
	})

	assert.Contains(t, errs["donor_name"], "at least 2")
	assert.Contains(t, errs["amount"], "greater than or equal to 1")
	assert.Contains(t, errs["transaction_id"], "at least 3")
}

func TestStructNullablePointer(t *testing.T) {
	long := "this note is longer than ten characters"
	errs := validate.Struct(donationInput{
		FundraiserID:  "x",
		DonorName:     "Ravi",
		Amount:        10,
		TransactionID: "UPI-1",
		Note:          &long,
	})
	assert.Contains(t, errs, "note")
}

func TestStructIn(t *testing.T) {
	type in struct {
		Role string `json:"role" validate:"required,in=organization,donor"`
	}

	assert.False(t, validate.HasErrors(validate.Struct(in{Role: "donor"})))
	assert.False(t, validate.HasErrors(validate.Struct(in{Role: "organization"})))

	errs := validate.Struct(in{Role: "admin"})
	assert.Contains(t, errs["role"], "invalid")
}

func TestStructEmailAndURL(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
		Site  string `json:"site" validate:"nullable,url"`
	}

	assert.False(t, validate.HasErrors(validate.Struct(in{Email: "a@example.com"})))

	errs := validate.Struct(in{Email: "not-an-email", Site: "ftp://x"})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "site")
}
