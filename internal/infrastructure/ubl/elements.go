package ubl

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/jhoicas/auditoria-fiscal/pkg/dian"
)

// step un nivel de ruta: namespace UBL + nombre local.
type step struct {
	ns    string
	local string
}

func cac(local string) step { return step{ns: dian.NsCac, local: local} }
func cbc(local string) step { return step{ns: dian.NsCbc, local: local} }

// matches compara por nombre local y namespace resuelto. Los elementos sin prefijo se aceptan
// con cualquier namespace: hay emisores que omiten cac/cbc y declaran todo por defecto.
func matches(el *etree.Element, s step) bool {
	if el.Tag != s.local {
		return false
	}
	return el.Space == "" || el.NamespaceURI() == s.ns
}

func child(el *etree.Element, s step) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if matches(c, s) {
			return c
		}
	}
	return nil
}

func children(el *etree.Element, s step) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if matches(c, s) {
			out = append(out, c)
		}
	}
	return out
}

// path recorre hijos directos nivel por nivel.
func path(el *etree.Element, steps ...step) *etree.Element {
	cur := el
	for _, s := range steps {
		cur = child(cur, s)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// find intenta la ruta desde los hijos directos y, si no existe, busca el primer paso entre
// todos los descendientes (orden de documento) y continúa con hijos directos.
func find(el *etree.Element, steps ...step) *etree.Element {
	if el == nil || len(steps) == 0 {
		return nil
	}
	if found := path(el, steps...); found != nil {
		return found
	}
	var found *etree.Element
	walk(el, func(d *etree.Element) bool {
		if !matches(d, steps[0]) {
			return true
		}
		if e := path(d, steps[1:]...); e != nil {
			found = e
			return false
		}
		return true
	})
	return found
}

// walk visita los descendientes de el en profundidad; se detiene cuando visit retorna false.
func walk(el *etree.Element, visit func(*etree.Element) bool) bool {
	for _, c := range el.ChildElements() {
		if !visit(c) {
			return false
		}
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

// innerText concatena el texto directo del elemento (incluye secciones CDATA).
func innerText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var b strings.Builder
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			b.WriteString(cd.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

func textAt(el *etree.Element, steps ...step) string {
	return innerText(path(el, steps...))
}

func findText(el *etree.Element, steps ...step) string {
	return innerText(find(el, steps...))
}
