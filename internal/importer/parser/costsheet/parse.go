// Package costsheet parses the cost sheet CSV files most couples bring
// along from their spreadsheet phase.
//
// The expected format is a header line followed by records with the
// columns date, vendor, name, amount, status and note.
package costsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wedplan/backend/internal/importer"
	"github.com/wedplan/backend/internal/importer/helpers"
	"github.com/wedplan/backend/internal/models"
)

// Column indices in the cost sheet CSV.
const (
	Date = iota
	Vendor
	Name
	Amount
	Status
	Note
)

// Parse parses a cost sheet CSV file into expense previews.
func Parse(f io.Reader) ([]importer.ExpensePreview, error) {
	reader := csv.NewReader(f)

	// We can reuse the array in the background to improve performance
	reader.ReuseRecord = true

	var expenses []importer.ExpensePreview

	// Skip the first line
	_, err := reader.Read()
	if err == io.EOF {
		return []importer.ExpensePreview{}, nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not read line in CSV: %w", err))
		}

		date, err := time.Parse("2006-01-02", record[Date])
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not parse time: %w", err))
		}

		if record[Name] == "" {
			return csvReadError(reader, errors.New("no name is set for the expense"))
		}

		if record[Amount] == "" {
			return csvReadError(reader, errors.New("no amount is set for the expense"))
		}

		amount, err := decimal.NewFromString(record[Amount])
		if err != nil {
			return csvReadError(reader, errors.New("amount could not be parsed to a decimal"))
		}

		if !amount.IsPositive() {
			return csvReadError(reader, errors.New("the amount for an expense must be positive"))
		}

		status := models.PaymentStatus(strings.ToLower(strings.TrimSpace(record[Status])))
		if status == "" {
			status = models.PaymentStatusPending
		}
		if !status.Valid() {
			return csvReadError(reader, fmt.Errorf("%q is not a valid payment status", record[Status]))
		}

		expenses = append(expenses, importer.ExpensePreview{
			Expense: models.Expense{
				Name:       record[Name],
				Note:       record[Note],
				Amount:     amount,
				Date:       date.In(time.UTC),
				Status:     status,
				ImportHash: helpers.Sha256String(strings.Join(record, ",")),
			},
			VendorName: record[Vendor],
		})
	}

	return expenses, nil
}

// csvReadError returns the an error with the format string, including the line of the input
// the error occurred in in the message.
func csvReadError(r *csv.Reader, err error) ([]importer.ExpensePreview, error) {
	// always use the first field, we are only interested in the line
	line, _ := r.FieldPos(1)

	return []importer.ExpensePreview{}, fmt.Errorf("error in line %d of the CSV: %w", line, err)
}
