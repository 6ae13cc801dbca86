// Package export writes booking lists to spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"hotelbook/internal/models"
)

// sheetWriter appends rows to the sheets of one workbook.
type sheetWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

func newSheetWriter() *sheetWriter {
	return &sheetWriter{file: excelize.NewFile()}
}

func (w *sheetWriter) addSheet(name string) error {
	// Excel limit
	if len(name) > 31 {
		name = name[:31]
	}
	if w.currentSheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *sheetWriter) writeHeader(columns []string) error {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	if err := w.writeRow(row); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		start, _ := excelize.CoordinatesToCellName(1, w.currentRow-1)
		end, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow-1)
		_ = w.file.SetCellStyle(w.currentSheet, start, end, style)
	}
	return nil
}

func (w *sheetWriter) writeRow(row []any) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}
	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return err
		}
	}
	w.currentRow++
	return nil
}

// BookingColumns is the header of the bookings sheet.
var BookingColumns = []string{
	"Reference", "Room", "Room type", "Guest", "Email", "Check-in", "Check-out",
	"Nights", "Guests", "Booking status", "Payment status", "Total",
}

// Bookings writes bookings as an .xlsx workbook with a detail sheet and a
// per-status summary sheet.
func Bookings(w io.Writer, bookings []models.Booking) error {
	sw := newSheetWriter()
	defer sw.file.Close()

	if err := sw.addSheet("Bookings"); err != nil {
		return err
	}
	if err := sw.writeHeader(BookingColumns); err != nil {
		return err
	}

	counts := map[models.BookingStatus]int{}
	var revenue float64
	for i := range bookings {
		b := &bookings[i]
		counts[b.BookingStatus]++
		if b.PaymentStatus == models.PaymentPaid {
			revenue += b.TotalPrice
		}
		if err := sw.writeRow(bookingRow(b)); err != nil {
			return fmt.Errorf("write booking %s: %w", b.BookingReference, err)
		}
	}

	if err := sw.addSheet("Summary"); err != nil {
		return err
	}
	if err := sw.writeHeader([]string{"Booking status", "Count"}); err != nil {
		return err
	}
	statuses := append([]models.BookingStatus{}, models.BookingStatuses...)
	for _, st := range append(statuses, models.BookingUnknown) {
		if err := sw.writeRow([]any{string(st), counts[st]}); err != nil {
			return err
		}
	}
	if err := sw.writeRow([]any{"Total", len(bookings)}); err != nil {
		return err
	}
	if err := sw.writeRow([]any{"Paid revenue", revenue}); err != nil {
		return err
	}

	sw.file.SetActiveSheet(0)
	return sw.file.Write(w)
}

func bookingRow(b *models.Booking) []any {
	var roomNumber, roomType, guest, email string
	if b.Room != nil {
		roomNumber, roomType = b.Room.RoomNumber, b.Room.Type
	}
	if b.User != nil {
		guest = b.User.FirstName + " " + b.User.LastName
		email = b.User.Email
	} else if len(b.Guests) > 0 {
		guest, email = b.Guests[0].FullName(), b.Guests[0].Email
	}
	return []any{
		b.BookingReference,
		roomNumber,
		roomType,
		guest,
		email,
		b.CheckInDate.String(),
		b.CheckOutDate.String(),
		b.Nights(),
		len(b.Guests),
		string(b.BookingStatus),
		string(b.PaymentStatus),
		b.TotalPrice,
	}
}

// FileName builds a unique export file name for now.
func FileName(now time.Time) string {
	return fmt.Sprintf("bookings-%s-%s.xlsx", now.Format("20060102-150405"), uuid.NewString()[:8])
}
