package service

import (
	"fmt"
	"io"
	"time"

	"vetcare-backend/internal/domain/entity"

	"github.com/go-pdf/fpdf"
)

// PrescriptionDocument is everything printed on a prescription.
type PrescriptionDocument struct {
	Prescription *entity.Prescription
	Pet          *entity.Pet
	Veterinarian *entity.Veterinarian
	Clinic       *entity.Clinic
}

type PrescriptionRenderer interface {
	Render(w io.Writer, doc PrescriptionDocument) error
}

type pdfRenderer struct{}

func NewPrescriptionRenderer() PrescriptionRenderer {
	return pdfRenderer{}
}

func (pdfRenderer) Render(w io.Writer, doc PrescriptionDocument) error {
	p := doc.Prescription
	if p == nil {
		return fmt.Errorf("prescription is required")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Prescription "+p.ID.String(), true)
	pdf.SetCreator("vetcare-backend", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	if doc.Clinic != nil {
		pdf.CellFormat(0, 10, doc.Clinic.Name, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, doc.Clinic.Address, "", 1, "L", false, 0, "")
		if doc.Clinic.Phone != "" {
			pdf.CellFormat(0, 5, "Phone: "+doc.Clinic.Phone, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(6)

	title := "Medication prescription"
	if p.Type == entity.PrescriptionVaccination {
		title = "Vaccination certificate"
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(4)

	row := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, value, "", "L", false)
	}

	if doc.Pet != nil {
		row("Patient", fmt.Sprintf("%s (%s %s)", doc.Pet.Name, doc.Pet.Species, doc.Pet.Breed))
	}
	row("Issued", p.IssuedDate.Format("02 Jan 2006"))
	row("Name", p.Name)
	row("Dosage", p.Dosage)
	row("Frequency", p.Frequency)
	row("Duration", p.Duration)
	row("Instructions", p.Instructions)
	if p.DueDate != nil {
		row("Next due", p.DueDate.Format("02 Jan 2006"))
	}

	pdf.Ln(12)
	if doc.Veterinarian != nil {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, doc.Veterinarian.FullName, "", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, "License "+doc.Veterinarian.LicenseNumber, "", 1, "R", false, 0, "")
	}

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "Generated "+time.Now().UTC().Format(time.RFC3339)+" - ref "+p.ID.String(), "", 0, "C", false, 0, "")

	return pdf.Output(w)
}
