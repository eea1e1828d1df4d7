package validate_test

import (
	"math"
	"testing"

	"github.com/ardanlabs/minichain/foundation/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type transfer struct {
	Sender   string  `json:"sender" validate:"required"`
	Receiver string  `json:"receiver" validate:"required"`
	Amount   float64 `json:"amount" validate:"finite"`
}

func Test_Check(t *testing.T) {
	type table struct {
		name   string
		val    transfer
		fields []string
	}

	tt := []table{
		{name: "valid", val: transfer{Sender: "bob", Receiver: "carol", Amount: 5}},
		{name: "negative", val: transfer{Sender: "bob", Receiver: "carol", Amount: -5}},
		{name: "missing", val: transfer{Amount: 1}, fields: []string{"sender", "receiver"}},
		{name: "nan", val: transfer{Sender: "bob", Receiver: "carol", Amount: math.NaN()}, fields: []string{"amount"}},
		{name: "inf", val: transfer{Sender: "bob", Receiver: "carol", Amount: math.Inf(-1)}, fields: []string{"amount"}},
	}

	t.Log("Given the need to validate request values.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking a %s value.", testID, tst.name)
			{
				f := func(t *testing.T) {
					err := validate.Check(tst.val)

					if len(tst.fields) == 0 {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould pass validation: %s", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould pass validation.", success, testID)
						return
					}

					if !validate.IsFieldErrors(err) {
						t.Fatalf("\t%s\tTest %d:\tShould get back field errors: %v", failed, testID, err)
					}

					fields := validate.GetFieldErrors(err).Fields()
					if len(fields) != len(tst.fields) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d field errors, got %v.", failed, testID, len(tst.fields), fields)
					}
					for _, name := range tst.fields {
						if _, exists := fields[name]; !exists {
							t.Fatalf("\t%s\tTest %d:\tShould report the %s field, got %v.", failed, testID, name, fields)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould report the invalid fields.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
