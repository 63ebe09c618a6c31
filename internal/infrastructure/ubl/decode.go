package ubl

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/jhoicas/auditoria-fiscal/pkg/dian"
)

type decodeKind uint8

const (
	kindMalformed decodeKind = iota
	kindDirect
	kindEnvelope
)

func (k decodeKind) String() string {
	switch k {
	case kindDirect:
		return "direct"
	case kindEnvelope:
		return "envelope"
	default:
		return "malformed"
	}
}

// decoded resultado del análisis en dos pasos: sobre AttachedDocument o documento directo.
// En kindMalformed, reason indica la causa.
type decoded struct {
	kind   decodeKind
	root   *etree.Element // raíz del documento fiscal (Invoice, CreditNote o DebitNote)
	reason string
}

func malformed(format string, args ...any) decoded {
	return decoded{kind: kindMalformed, reason: fmt.Sprintf(format, args...)}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode detecta el sobre por la identidad de la raíz y, si aplica, re-analiza el documento
// embebido en cac:Attachment/cac:ExternalReference/cbc:Description.
func decode(payload []byte) decoded {
	root, err := parseRoot(payload, charsetReader)
	if err != nil {
		return malformed("XML no legible: %v", err)
	}
	if root.Tag != dian.RootAttachedDocument {
		if !isFiscalRoot(root) {
			return malformed("raíz no soportada: %s", root.Tag)
		}
		return decoded{kind: kindDirect, root: root}
	}

	inner := findText(root, cac("Attachment"), cac("ExternalReference"), cbc("Description"))
	if inner == "" {
		return malformed("AttachedDocument sin documento embebido")
	}
	// El texto embebido ya está en UTF-8; su declaración encoding= no se vuelve a aplicar.
	innerRoot, err := parseRoot([]byte(inner), passthroughCharset)
	if err != nil {
		return malformed("documento embebido no legible: %v", err)
	}
	if !isFiscalRoot(innerRoot) {
		return malformed("documento embebido con raíz no soportada: %s", innerRoot.Tag)
	}
	return decoded{kind: kindEnvelope, root: innerRoot}
}

func isFiscalRoot(el *etree.Element) bool {
	switch el.Tag {
	case dian.RootInvoice, dian.RootCreditNote, dian.RootDebitNote:
		return true
	}
	return false
}

func parseRoot(payload []byte, charset func(string, io.Reader) (io.Reader, error)) (*etree.Element, error) {
	payload = bytes.TrimSpace(bytes.TrimPrefix(payload, utf8BOM))
	if len(payload) == 0 {
		return nil, fmt.Errorf("contenido vacío")
	}
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		Permissive:    true,
		CharsetReader: charset,
	}
	if err := doc.ReadFromBytes(payload); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("sin elemento raíz")
	}
	return root, nil
}

// charsetReader soporta las codificaciones declaradas por emisores antiguos (ISO-8859-1,
// Windows-1252) además de cualquier etiqueta WHATWG.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("codificación no soportada %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func passthroughCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}
