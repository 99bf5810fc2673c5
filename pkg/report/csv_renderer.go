package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/utils"
)

type Renderer interface {
	RenderEntries(entries []Entry) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

var csvHeader = []string{
	"Date", "Type", "Category", "Description", "Amount",
	"Property", "Payment method", "Reference", "Notes",
}

// RenderEntries writes the export rows. encoding/csv quotes any field
// containing the delimiter or a quote character and doubles embedded
// quotes, which is exactly the format the report consumers expect.
func (t *CsvRendererImpl) RenderEntries(entries []Entry) (string, error) {
	data := make([][]string, 0, len(entries)+1)
	data = append(data, csvHeader)
	for _, entry := range entries {
		data = append(data, []string{
			entry.Date.Format(utils.DateLayout),
			string(entry.Type),
			entry.Category,
			entry.Description,
			strconv.FormatFloat(entry.Amount, 'f', 2, 64),
			entry.PropertyName,
			entry.PaymentMethod,
			entry.Reference,
			entry.Notes,
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
