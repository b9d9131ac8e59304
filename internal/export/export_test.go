package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/workshop-maintenance/internal/models"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
	"github.com/xuri/excelize/v2"
)

func sampleEntries() []models.HistoryEntryWithStatus {
	return []models.HistoryEntryWithStatus{
		{
			HistoryEntry: models.HistoryEntry{
				ID: "h2", WorkshopName: "Xưởng A", EquipmentName: "Máy tiện", TaskName: "Thay dầu",
				MaintenanceDate: time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC),
			},
			Status:      models.Overdue,
			OverdueDays: 9,
		},
		{
			HistoryEntry: models.HistoryEntry{
				ID: "h1", WorkshopName: "Xưởng A", EquipmentName: "Máy tiện", TaskName: "Thay dầu",
				MaintenanceDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			},
			Status: models.OnTime,
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "LichSuBaoTri.xlsx", FileName(schedule.VietnameseLabels, FormatXLSX))
	assert.Equal(t, "maintenance-history.pdf", FileName(schedule.EnglishLabels, FormatPDF))
}

func TestWriteXLSX_Vietnamese(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleEntries(), schedule.VietnameseLabels))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Lịch sử"}, f.GetSheetList())

	rows, err := f.GetRows("Lịch sử")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Xưởng", "Tên thiết bị", "Hạng mục", "Ngày bảo trì", "Tình trạng"}, rows[0])
	assert.Equal(t, []string{"Xưởng A", "Máy tiện", "Thay dầu", "10/04/2024", "Quá hạn 9 ngày"}, rows[1])
	assert.Equal(t, "Đúng hạn", rows[2][4])

	width, err := f.GetColWidth("Lịch sử", "A")
	require.NoError(t, err)
	assert.InDelta(t, 25, width, 0.01)
	width, err = f.GetColWidth("Lịch sử", "E")
	require.NoError(t, err)
	assert.InDelta(t, 20, width, 0.01)
}

func TestWriteXLSX_EnglishEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil, schedule.EnglishLabels))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("History")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Workshop", rows[0][0])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleEntries(), schedule.EnglishLabels))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
