package catalog

import (
	"sort"
	"strings"

	"github.com/ataboada/clinica-core/internal/model"
)

// The dental subset of the CIE-10 catalog the clinic diagnoses against. A
// static table is deliberate: the full WHO catalog is overkill for a dental
// practice and these cover the diagnoses actually made here.
var cie10Codes = []model.DiagnosticCode{
	{Code: "K02.0", Name: "Caries limitada al esmalte"},
	{Code: "K02.1", Name: "Caries de la dentina"},
	{Code: "K04.0", Name: "Pulpitis"},
	{Code: "K04.1", Name: "Necrosis de la pulpa"},
	{Code: "K05.0", Name: "Gingivitis aguda"},
	{Code: "K05.1", Name: "Gingivitis crónica"},
	{Code: "K08.1", Name: "Pérdida de dientes debida a accidente"},
	{Code: "K00.0", Name: "Anodoncia"},
	{Code: "S02.5", Name: "Fractura de los dientes"},
	{Code: "K03.6", Name: "Depósitos (acrecentamientos) en los dientes"},
	{Code: "K05.3", Name: "Periodontitis crónica"},
	{Code: "K07.4", Name: "Maloclusión, no especificada"},
	{Code: "K02.9", Name: "Caries dental, no especificada"},
	{Code: "Z01.2", Name: "Examen odontológico"},
}

// SearchDiagnosticCodes filters the CIE-10 table by a case-insensitive
// substring match over code or name. Prefix matches sort before plain
// substring matches; relative order is otherwise stable. An empty query
// returns the whole table.
func SearchDiagnosticCodes(query string) []model.DiagnosticCode {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.DiagnosticCode, 0, len(cie10Codes))
	if q == "" {
		return append(out, cie10Codes...)
	}

	for _, c := range cie10Codes {
		if strings.Contains(strings.ToLower(c.Code), q) || strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	starts := func(c model.DiagnosticCode) bool {
		return strings.HasPrefix(strings.ToLower(c.Code), q) || strings.HasPrefix(strings.ToLower(c.Name), q)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return starts(out[i]) && !starts(out[j])
	})
	return out
}
