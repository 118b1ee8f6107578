package employee

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRowParserMapsHeaderColumns(t *testing.T) {
	input := strings.Join([]string{
		"first_name,last_name,email,contact_number,role,base_salary,tax_rate",
		"Asha,Verma,asha@corp.test,555-0101,admin,50000,10.5",
		"Ravi,,ravi@corp.test,555-0102,EMPLOYEE,30000,",
	}, "\n")

	rows, err := NewCSVRowParser().ParseRows(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Asha", rows[0].FirstName)
	assert.Equal(t, "Verma", rows[0].LastName)
	assert.Equal(t, "asha@corp.test", rows[0].Email)
	assert.Equal(t, "ADMIN", rows[0].Role)
	assert.Equal(t, int64(50000), rows[0].BaseSalary)
	assert.Equal(t, 10.5, rows[0].TaxRate)

	assert.Equal(t, "Ravi", rows[1].FirstName)
	assert.Empty(t, rows[1].LastName)
	assert.Zero(t, rows[1].TaxRate)
}

func TestCSVRowParserIgnoresUnknownColumns(t *testing.T) {
	input := strings.Join([]string{
		"first_name,shoe_size,role,contact_number",
		"Asha,42,EMPLOYEE,555-0101",
	}, "\n")

	rows, err := NewCSVRowParser().ParseRows(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Asha", rows[0].FirstName)
	assert.Equal(t, "555-0101", rows[0].ContactNumber)
}

func TestCSVRowParserMalformedNumbersDefaultToZero(t *testing.T) {
	input := strings.Join([]string{
		"first_name,role,contact_number,base_salary",
		"Asha,EMPLOYEE,555-0101,not-a-number",
	}, "\n")

	rows, err := NewCSVRowParser().ParseRows(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].BaseSalary)
}

func TestCSVRowParserEmptyFile(t *testing.T) {
	rows, err := NewCSVRowParser().ParseRows(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, rows)
}
