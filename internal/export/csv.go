// Package export renders customers and payments to CSV and parses customer
// CSVs back for import. The column layout is fixed; spreadsheets built
// against earlier exports must keep opening.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
)

const (
	CustomersHeader = "ID,Name,Phone,Address,STB Number,Package,Plan Price,Status,Connection Date"
	PaymentsHeader  = "Customer,Amount,Date,Method,Billing Period,Status"
)

// WriteCustomers writes the customer CSV. Text fields are always quoted;
// the numeric price column is not.
func WriteCustomers(w io.Writer, customers []customerdomain.Customer) error {
	if _, err := fmt.Fprintln(w, CustomersHeader); err != nil {
		return err
	}
	for _, customer := range customers {
		row := customer.Redacted()
		_, err := fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%d,%s,%s\n",
			quote(row.ID.String()),
			quote(row.Name),
			quote(row.Phone),
			quote(row.Address),
			quote(row.STBNumber),
			quote(row.PackageName),
			row.MonthlyRate,
			quote(string(row.Status)),
			quote(row.ConnectionDate),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WritePayments writes the payment CSV with the current customer name,
// already redacted by the caller.
func WritePayments(w io.Writer, payments []paymentdomain.Payment) error {
	if _, err := fmt.Fprintln(w, PaymentsHeader); err != nil {
		return err
	}
	for _, payment := range payments {
		_, err := fmt.Fprintf(w, "%s,%d,%s,%s,%s,%s\n",
			quote(payment.CustomerName),
			payment.Amount,
			quote(payment.PaymentDate),
			quote(payment.Method),
			quote(payment.BillingPeriod),
			quote(payment.Status),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ParseCustomers reads a customer CSV produced by WriteCustomers or edited
// by hand. Rows with an unusable id column get ID zero; the import path
// assigns fresh ids for those. Plan duration is not a CSV column, so
// imported customers start on the default monthly plan.
func ParseCustomers(r io.Reader) ([]customerdomain.Customer, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty csv")
	}
	if err != nil {
		return nil, err
	}
	if strings.Join(header, ",") != CustomersHeader {
		return nil, fmt.Errorf("unexpected csv header %q", strings.Join(header, ","))
	}

	var customers []customerdomain.Customer
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 9 {
			return nil, fmt.Errorf("short csv row: %d columns", len(record))
		}

		rate, err := strconv.ParseInt(strings.TrimSpace(record[6]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse plan price %q: %w", record[6], err)
		}

		customer := customerdomain.Customer{
			Name:           strings.TrimSpace(record[1]),
			Phone:          strings.TrimSpace(record[2]),
			Address:        strings.TrimSpace(record[3]),
			STBNumber:      strings.TrimSpace(record[4]),
			PackageName:    strings.TrimSpace(record[5]),
			MonthlyRate:    rate,
			Status:         customerdomain.Status(strings.TrimSpace(record[7])),
			ConnectionDate: strings.TrimSpace(record[8]),
		}
		if id, err := snowflake.ParseString(strings.TrimSpace(record[0])); err == nil {
			customer.ID = id
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

// quote wraps a field in double quotes, escaping embedded quotes per CSV
// convention.
func quote[T ~string](value T) string {
	return `"` + strings.ReplaceAll(string(value), `"`, `""`) + `"`
}
