package export

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebafin/orcimport/internal/runner"
	"github.com/ebafin/orcimport/internal/types"
)

func sampleRows() []runner.LogRow {
	return []runner.LogRow{
		{
			Timestamp: "2026-08-29T14:30:05",
			Lote:      1,
			Status:    types.StatusOK,
			Resultado: "OK",
			Msg:       "SIMULADO",
		},
		{
			Timestamp:    "2026-08-29T14:30:07",
			Lote:         2,
			Status:       types.StatusError,
			Resultado:    "ERRO",
			ErroExecucao: "tabela bloqueada",
			Msg:          "rejeitado",
			GridErros:    []string{"linha 1: conta inexistente", "linha 4: valor negativo"},
		},
	}
}

func TestLogBytes(t *testing.T) {
	lines := strings.Split(strings.TrimRight(string(LogBytes(sampleRows())), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, LogHeader, lines[0])
	assert.Equal(t, "2026-08-29T14:30:05;1;OK;OK;;SIMULADO;", lines[1])
	assert.Equal(t,
		"2026-08-29T14:30:07;2;ERROR;ERRO;tabela bloqueada;rejeitado;"+
			"linha 1: conta inexistente | linha 4: valor negativo",
		lines[2])
}

func TestLogBytesSanitizesFreeText(t *testing.T) {
	rows := []runner.LogRow{{
		Timestamp: "2026-08-29T14:30:05",
		Lote:      1,
		Status:    types.StatusException,
		Msg:       "falha; detalhe\nsegunda linha",
	}}

	lines := strings.Split(strings.TrimRight(string(LogBytes(rows)), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2026-08-29T14:30:05;1;EXCEPTION;;;falha, detalhe segunda linha;", lines[1])
}

func TestLogBytesSanitizesResultado(t *testing.T) {
	// Resultado comes straight off the wire, so it gets the same
	// delimiter/newline treatment as the other free-text fields.
	rows := []runner.LogRow{{
		Timestamp: "2026-08-29T14:30:05",
		Lote:      1,
		Status:    types.StatusError,
		Resultado: "ERRO; veja\ndetalhe",
	}}

	lines := strings.Split(strings.TrimRight(string(LogBytes(rows)), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2026-08-29T14:30:05;1;ERROR;ERRO, veja detalhe;;;", lines[1])
}

func TestWriteLogCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "envio_log.csv")

	require.NoError(t, WriteLog(path, sampleRows()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), LogHeader))
}

func TestWriteArtifactsZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lotes_xml.zip")

	artifacts := []runner.Artifact{
		{Lote: 1, XML: []byte("<envelope>um</envelope>")},
		{Lote: 2, XML: []byte("<envelope>dois</envelope>")},
	}

	require.NoError(t, WriteArtifactsZip(path, artifacts))

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	require.Len(t, reader.File, 2)
	assert.Equal(t, "lote_001.xml", reader.File[0].Name)
	assert.Equal(t, "lote_002.xml", reader.File[1].Name)

	entry, err := reader.File[1].Open()
	require.NoError(t, err)
	defer entry.Close()

	content, err := io.ReadAll(entry)
	require.NoError(t, err)
	assert.Equal(t, "<envelope>dois</envelope>", string(content))
}

func TestWriteArtifactsZipEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lotes_xml.zip")

	require.NoError(t, WriteArtifactsZip(path, nil))

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()
	assert.Empty(t, reader.File)
}
