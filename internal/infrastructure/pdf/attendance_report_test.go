package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeye/icms-api/internal/application/dto"
)

func TestRenderAttendance(t *testing.T) {
	g := NewAttendanceReportRenderer("Asistencia", nil)
	ts := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	doc, err := g.RenderAttendance(context.Background(), []dto.AttendanceRecord{
		{Username: "zhang3", Timestamp: ts},
		{Username: "", Timestamp: ts.Add(time.Minute)},
		{Username: "li4", Timestamp: ts.Add(time.Hour)},
	}, ts)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRenderAttendance_Vacio(t *testing.T) {
	doc, err := NewAttendanceReportRenderer("Asistencia", time.UTC).
		RenderAttendance(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
