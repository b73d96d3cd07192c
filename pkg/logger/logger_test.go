package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	return ev
}

func TestOperation_CamposDeCorrelacion(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.Config{Level: "info", Service: "farmacia-api"})

	l.Operation("sale", "tx-1").Info().Msg("operación de inventario registrada")

	ev := decodeLine(t, &buf)
	assert.Equal(t, "sale", ev["operation"])
	assert.Equal(t, "tx-1", ev["transaction_id"])
	assert.Equal(t, "farmacia-api", ev["service"])
	assert.Equal(t, "info", ev["level"])
}

func TestNewWithWriter_Nivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.Config{Level: "WARN"})

	l.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("visible")
	assert.Equal(t, "warn", decodeLine(t, &buf)["level"])
}

func TestNewWithWriter_NivelDesconocidoEsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.Config{Level: "verbose"})

	l.Debug().Msg("descartado")
	assert.Zero(t, buf.Len())
	l.Info().Msg("visible")
	assert.NotZero(t, buf.Len())
}
