// =============================================================================
// Budget Importer - Envelope Builder
// =============================================================================
//
// This module serializes a batch of budget records plus the submission
// configuration into the SOAP request the Senior budget-grid service
// expects. The structure is fixed and order-significant:
//
//   <soapenv:Envelope>                       <!-- transport namespace -->
//     <soapenv:Body>
//       <ser:gerarorcamentofinanceirogrid>   <!-- service namespace -->
//         <user>..</user>
//         <password>..</password>
//         <encryption>..</encryption>
//         <tipOpe>..</tipOpe>
//         <codEmp>..</codEmp>
//         <lctSup>..</lctSup>
//         <recalculaTotalizadores>..</recalculaTotalizadores>
//         <orcamentoFinanceiroLista>
//           <orcamentoFinanceiroLista>       <!-- one per record -->
//             <numPrj>..</numPrj> ... <vlrCxf>..</vlrCxf>
//           </orcamentoFinanceiroLista>
//         </orcamentoFinanceiroLista>
//       </ser:gerarorcamentofinanceirogrid>
//     </soapenv:Body>
//   </soapenv:Envelope>
//
// The document is written by hand into a buffer rather than marshalled,
// because the wire contract pins both the element order and the namespace
// prefix declarations. Output is deterministic: no timestamps, no random
// ids, byte-identical for identical input.
//
// =============================================================================

package envelope

import (
	"bytes"

	"github.com/ebafin/orcimport/internal/config"
	"github.com/ebafin/orcimport/internal/types"
)

// Namespace URIs declared on the envelope root.
const (
	TransportNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	ServiceNamespace   = "http://services.senior.com.br"
)

// Operation is the service operation local name.
const Operation = "gerarorcamentofinanceirogrid"

// listElement wraps the record items and also names each item, per the
// service WSDL.
const listElement = "orcamentoFinanceiroLista"

// =============================================================================
// BUILD FUNCTION
// =============================================================================

// Build serializes one batch into the request document. It cannot fail on
// well-formed records: every field is coerced to its string representation
// (empty string for nil integers) and XML-escaped.
func Build(cfg config.Submission, records []types.Record) []byte {
	var buffer bytes.Buffer

	buffer.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	buffer.WriteString("<soapenv:Envelope xmlns:soapenv=\"" + TransportNamespace +
		"\" xmlns:ser=\"" + ServiceNamespace + "\">\n")
	buffer.WriteString("  <soapenv:Body>\n")
	buffer.WriteString("    <ser:" + Operation + ">\n")

	// Header fields, order-significant per the remote contract.
	header := []struct{ tag, value string }{
		{"user", cfg.User},
		{"password", cfg.Password},
		{"encryption", cfg.Encryption},
		{"tipOpe", cfg.TipOpe},
		{"codEmp", cfg.CodEmp},
		{"lctSup", cfg.LctSup},
		{"recalculaTotalizadores", cfg.RecalculaTotalizadores},
	}
	for _, field := range header {
		writeSimpleElement(&buffer, field.tag, field.value, 3)
	}

	buffer.WriteString("      <" + listElement + ">\n")
	for _, record := range records {
		writeItem(&buffer, record)
	}
	buffer.WriteString("      </" + listElement + ">\n")

	buffer.WriteString("    </ser:" + Operation + ">\n")
	buffer.WriteString("  </soapenv:Body>\n")
	buffer.WriteString("</soapenv:Envelope>\n")

	return buffer.Bytes()
}

// writeItem writes one record as a list item with the seven fields in
// declared order.
func writeItem(buffer *bytes.Buffer, record types.Record) {
	buffer.WriteString("        <" + listElement + ">\n")

	names := types.FieldNames()
	for i, value := range record.Fields() {
		writeSimpleElement(buffer, names[i], value, 5)
	}

	buffer.WriteString("        </" + listElement + ">\n")
}

// writeSimpleElement writes an indented element with an escaped text value.
func writeSimpleElement(buffer *bytes.Buffer, name, value string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString("  ")
	}
	buffer.WriteString("<")
	buffer.WriteString(name)
	buffer.WriteString(">")
	buffer.WriteString(escapeXML(value))
	buffer.WriteString("</")
	buffer.WriteString(name)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML text content.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}
