// =============================================================================
// Budget Importer - Response Parser
// =============================================================================
//
// Extracts the business verdict from the service reply. The Senior
// endpoints are not consistent about namespace prefixes across
// environments (ns1:resultado, soapenv:resultado, bare resultado have all
// been observed), so every element is matched by its local name only.
//
// Interpreted local names:
//   resultado    - result code (first occurrence)
//   erroExecucao - execution-level error (first occurrence)
//   msgErr       - field-level error messages (all non-empty, in order)
//   mensagem     - human-readable message (first occurrence)
//   faultstring  - SOAP fault message, used when mensagem is absent/empty
//
// A reply missing any of these still parses, just with fewer facts. Only a
// body that is not well-formed XML at all is an error.
//
// =============================================================================

package response

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// MalformedResponseError reports a response body that is not parseable XML.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("response is not well-formed XML: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Reply holds the fields extracted from a service response.
type Reply struct {
	// Resultado is the remote result code; "OK" on success.
	Resultado string

	// ErroExecucao is the execution-level error, empty when none was
	// reported.
	ErroExecucao string

	// GridErros lists the field-level error messages in document order.
	GridErros []string

	// Mensagem is the human-readable message: the first mensagem element,
	// or the first faultstring when mensagem is absent or empty.
	Mensagem string
}

// Parse walks the XML token stream and collects the interpreted fields.
func Parse(body []byte) (*Reply, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))

	var (
		reply       Reply
		sawRoot     bool
		sawResult   bool
		sawExecErr  bool
		sawMensagem bool
		faultstring string
		sawFault    bool

		current string
		text    strings.Builder
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedResponseError{Err: err}
		}

		switch t := token.(type) {
		case xml.StartElement:
			sawRoot = true
			current = t.Name.Local
			text.Reset()

		case xml.CharData:
			if current != "" {
				text.Write(t)
			}

		case xml.EndElement:
			value := strings.TrimSpace(text.String())
			switch t.Name.Local {
			case "resultado":
				if !sawResult {
					reply.Resultado = value
					sawResult = true
				}
			case "erroExecucao":
				if !sawExecErr {
					reply.ErroExecucao = value
					sawExecErr = true
				}
			case "msgErr":
				if value != "" {
					reply.GridErros = append(reply.GridErros, value)
				}
			case "mensagem":
				if !sawMensagem {
					reply.Mensagem = value
					sawMensagem = true
				}
			case "faultstring":
				if !sawFault {
					faultstring = value
					sawFault = true
				}
			}
			current = ""
			text.Reset()
		}
	}

	if !sawRoot {
		return nil, &MalformedResponseError{Err: fmt.Errorf("no XML content")}
	}

	if reply.Mensagem == "" {
		reply.Mensagem = faultstring
	}

	return &reply, nil
}
