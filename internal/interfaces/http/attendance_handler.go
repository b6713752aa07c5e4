package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/yeye/icms-api/internal/application/attendance"
	"github.com/yeye/icms-api/pkg/logger"
)

// AttendanceHandler listado y exportación de asistencia.
type AttendanceHandler struct {
	uc  *attendance.AttendanceUseCase
	log *logger.Logger
}

// NewAttendanceHandler construye el handler de asistencia.
func NewAttendanceHandler(uc *attendance.AttendanceUseCase, log *logger.Logger) *AttendanceHandler {
	return &AttendanceHandler{uc: uc, log: log.Component("http.attendance")}
}

// Records godoc
// @Summary      Listar registros de asistencia
// @Tags         attendance
// @Produce      json
// @Param        username  query  string  false  "filtrar por usuario"
// @Success      200   {array}   dto.AttendanceRecord
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /attendance/records [get]
func (h *AttendanceHandler) Records(c *fiber.Ctx) error {
	records, err := h.uc.ListRecords(c.UserContext(), c.Query("username"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(records)
}

// RecordsPDF godoc
// @Summary      Exportar registros de asistencia en PDF
// @Tags         attendance
// @Produce      application/pdf
// @Param        username  query  string  false  "filtrar por usuario"
// @Success      200   {file}    binary
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /attendance/records/pdf [get]
func (h *AttendanceHandler) RecordsPDF(c *fiber.Ctx) error {
	doc, filename, err := h.uc.ExportPDF(c.UserContext(), c.Query("username"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Attachment(filename)
	return c.Send(doc)
}
