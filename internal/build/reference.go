package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/scan"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/schema"
)

// UnknownReference is recorded when no file carries a decodable date code.
// The value is advisory metadata, so decoding failures never abort a build.
const UnknownReference = "Unknown"

// DataReference resolves the snapshot's reference date by decoding the date
// code embedded in the first companies file name, e.g.
// "K3241.K03200Y0.D30610.EMPRECSV" carries "D30610" meaning 10/06/2023.
func DataReference(dir string) string {
	files, err := scan.FindByPattern(dir, schema.Empresas.FilePattern)
	if err != nil || len(files) == 0 {
		return UnknownReference
	}
	return decodeReferenceToken(referenceToken(filepath.Base(files[0])))
}

// referenceToken extracts the third dot-separated segment of the file name,
// where the publisher embeds the date code.
func referenceToken(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// decodeReferenceToken turns a "DyMMDD" code into "DD/MM/YYYY". The decade
// digit is anchored to the 2020s; tokens from 2030 onward need a new rule.
func decodeReferenceToken(tok string) string {
	if len(tok) != 6 || tok[0] != 'D' {
		return UnknownReference
	}
	return fmt.Sprintf("%s/%s/202%c", tok[4:6], tok[2:4], tok[1])
}
