package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okResponse = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <ns1:gerarorcamentofinanceirogridResponse xmlns:ns1="http://services.senior.com.br">
      <result>
        <resultado>OK</resultado>
        <erroExecucao></erroExecucao>
        <mensagem>Orçamento gerado com sucesso</mensagem>
      </result>
    </ns1:gerarorcamentofinanceirogridResponse>
  </soapenv:Body>
</soapenv:Envelope>`

func TestParseOKResponse(t *testing.T) {
	reply, err := Parse([]byte(okResponse))
	require.NoError(t, err)

	assert.Equal(t, "OK", reply.Resultado)
	assert.Empty(t, reply.ErroExecucao)
	assert.Equal(t, "Orçamento gerado com sucesso", reply.Mensagem)
	assert.Empty(t, reply.GridErros)
}

func TestParseIgnoresNamespacePrefixes(t *testing.T) {
	prefixed := `<env:Envelope xmlns:env="http://schemas.xmlsoap.org/soap/envelope/">
  <env:Body><r:out xmlns:r="urn:x"><r:resultado>OK</r:resultado></r:out></env:Body>
</env:Envelope>`
	bare := `<Envelope><Body><out><resultado>OK</resultado></out></Body></Envelope>`

	fromPrefixed, err := Parse([]byte(prefixed))
	require.NoError(t, err)

	fromBare, err := Parse([]byte(bare))
	require.NoError(t, err)

	assert.Equal(t, fromBare, fromPrefixed)
	assert.Equal(t, "OK", fromPrefixed.Resultado)
}

func TestParseCollectsGridErrorsInOrder(t *testing.T) {
	body := `<out>
  <resultado>ERRO</resultado>
  <erroExecucao>Falha de validação</erroExecucao>
  <gridErros>
    <msgErr>linha 1: conta inexistente</msgErr>
    <msgErr></msgErr>
    <msgErr>linha 3: centro de custo bloqueado</msgErr>
  </gridErros>
</out>`

	reply, err := Parse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "ERRO", reply.Resultado)
	assert.Equal(t, "Falha de validação", reply.ErroExecucao)
	assert.Equal(t, []string{
		"linha 1: conta inexistente",
		"linha 3: centro de custo bloqueado",
	}, reply.GridErros)
}

func TestParseFaultstringFallback(t *testing.T) {
	body := `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <soapenv:Fault>
      <faultcode>soapenv:Server</faultcode>
      <faultstring>Credenciais inválidas</faultstring>
    </soapenv:Fault>
  </soapenv:Body>
</soapenv:Envelope>`

	reply, err := Parse([]byte(body))
	require.NoError(t, err)

	assert.Empty(t, reply.Resultado)
	assert.Equal(t, "Credenciais inválidas", reply.Mensagem)
}

func TestParseMensagemWinsOverFaultstring(t *testing.T) {
	body := `<out><mensagem>mensagem direta</mensagem><faultstring>ignorada</faultstring></out>`

	reply, err := Parse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "mensagem direta", reply.Mensagem)
}

func TestParseFirstResultadoWins(t *testing.T) {
	body := `<out><resultado>OK</resultado><resultado>ERRO</resultado></out>`

	reply, err := Parse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "OK", reply.Resultado)
}

func TestParseMalformed(t *testing.T) {
	for _, body := range []string{"", "   ", "<out><resultado>OK</out>"} {
		_, err := Parse([]byte(body))

		var malformed *MalformedResponseError
		assert.ErrorAs(t, err, &malformed, "input %q", body)
	}
}
