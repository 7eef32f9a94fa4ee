package docx

import (
	"fmt"
	"strings"
)

// Minimal OOXML part templates. Only the parts a word processor needs to open
// the file are emitted.

const wNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles ` + wNS + `>
  <w:docDefaults>
    <w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault>
  </w:docDefaults>
</w:styles>`

const tableBorders = `<w:top w:val="single" w:sz="4" w:color="808080"/><w:left w:val="single" w:sz="4" w:color="808080"/><w:bottom w:val="single" w:sz="4" w:color="808080"/><w:right w:val="single" w:sz="4" w:color="808080"/><w:insideH w:val="single" w:sz="4" w:color="808080"/><w:insideV w:val="single" w:sz="4" w:color="808080"/>`

const emptyPara = `<w:p/>`

func contentTypesXML(hasFooter bool) string {
	footer := ""
	if hasFooter {
		footer = `<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>`
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
  ` + footer + `
</Types>`
}

func documentRelsXML(hasFooter bool) string {
	footer := ""
	if hasFooter {
		footer = `<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>`
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  ` + footer + `
</Relationships>`
}

func documentXML(body string, hasFooter bool) string {
	footerRef := ""
	if hasFooter {
		footerRef = `<w:footerReference w:type="default" r:id="rId2"/>`
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + wNS + `>
  <w:body>` + body + `<w:sectPr>` + footerRef + `<w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="851" w:right="851" w:bottom="851" w:left="851"/></w:sectPr></w:body>
</w:document>`
}

// footerXML renders the watermark as small centered footer text. This format
// intentionally differs from the PDF's page overlay in style, not in presence.
func footerXML(watermark string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:ftr ` + wNS + `>
  ` + para(`<w:pPr><w:jc w:val="center"/></w:pPr>`, `<w:r><w:rPr><w:sz w:val="16"/><w:color w:val="999999"/></w:rPr><w:t xml:space="preserve">`+escape(watermark)+`</w:t></w:r>`) + `
</w:ftr>`
}

func para(props, runs string) string {
	return "<w:p>" + props + runs + "</w:p>"
}

func textRun(text string) string {
	return `<w:r><w:t xml:space="preserve">` + escape(text) + `</w:t></w:r>`
}

// boldRun emits a bold run; size is in half-points, 0 keeps the default.
func boldRun(text string, size int) string {
	sz := ""
	if size > 0 {
		sz = fmt.Sprintf(`<w:sz w:val="%d"/>`, size)
	}
	return `<w:r><w:rPr><w:b/>` + sz + `</w:rPr><w:t xml:space="preserve">` + escape(text) + `</w:t></w:r>`
}

func cell(runs string, width int) string {
	return fmt.Sprintf(`<w:tc><w:tcPr><w:tcW w:w="%d" w:type="pct"/></w:tcPr><w:p>%s</w:p></w:tc>`, width, runs)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string { return escaper.Replace(s) }
