package deck

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"prodeck/internal/core/domain"
)

// The writer emits the OOXML presentation parts directly. The package
// structure mirrors what desktop tooling produces: one blank master,
// one blank layout, one theme, and a picture-only slide per image
// group, all referenced through the usual relationship parts.

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const relsNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

// buildDeck renders one presentation file from the ordered images,
// placing perSlide images on each slide.
func buildDeck(images []*domain.ValidatedImage, perSlide int) ([]byte, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("deck with no images")
	}
	if perSlide < 1 {
		perSlide = 1
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	slideCount := (len(images) + perSlide - 1) / perSlide

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML(slideCount)},
		{"_rels/.rels", rootRelsXML()},
		{"ppt/presentation.xml", presentationXML(slideCount)},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(slideCount)},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML()},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML()},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML()},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML()},
		{"ppt/theme/theme1.xml", themeXML()},
	}
	for _, part := range parts {
		if err := writePart(zw, part.name, []byte(part.data)); err != nil {
			return nil, err
		}
	}

	cells := cellsFor(perSlide)
	mediaIndex := 0
	for slide := 0; slide < slideCount; slide++ {
		start := slide * perSlide
		end := start + perSlide
		if end > len(images) {
			end = len(images)
		}
		group := images[start:end]

		firstMedia := mediaIndex + 1
		slideXML, slideRels := slideParts(group, cells, firstMedia)

		name := fmt.Sprintf("ppt/slides/slide%d.xml", slide+1)
		if err := writePart(zw, name, []byte(slideXML)); err != nil {
			return nil, err
		}
		relsName := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slide+1)
		if err := writePart(zw, relsName, []byte(slideRels)); err != nil {
			return nil, err
		}

		for _, img := range group {
			mediaIndex++
			mediaName := fmt.Sprintf("ppt/media/image%d.jpeg", mediaIndex)
			if err := writePart(zw, mediaName, img.Data); err != nil {
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing document: %w", err)
	}
	return buf.Bytes(), nil
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating part %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing part %s: %w", name, err)
	}
	return nil
}

func contentTypesXML(slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= slides; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func rootRelsXML() string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="` + relsNS + `/officeDocument" Target="ppt/presentation.xml"/>` +
		`</Relationships>`
}

func presentationXML(slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="` + relsNS + `" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 0; i < slides; i++ {
		// Slide relationships start at rId2; rId1 is the master.
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, 2+i)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, emu(slideWidth), emu(slideHeight))
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="` + relsNS + `/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := 0; i < slides; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s/slide" Target="slides/slide%d.xml"/>`, 2+i, relsNS, 1+i)
	}
	fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s/theme" Target="theme/theme1.xml"/>`, 2+slides, relsNS)
	b.WriteString(`</Relationships>`)
	return b.String()
}

const emptyShapeTree = `<p:spTree>` +
	`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr/>`

const whiteBackground = `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="FFFFFF"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`

func slideMasterXML() string {
	return xmlHeader +
		`<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="` + relsNS + `" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld>` + whiteBackground + emptyShapeTree + `</p:spTree></p:cSld>` +
		`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
		`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
		`</p:sldMaster>`
}

func slideMasterRelsXML() string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="` + relsNS + `/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
		`<Relationship Id="rId2" Type="` + relsNS + `/theme" Target="../theme/theme1.xml"/>` +
		`</Relationships>`
}

func slideLayoutXML() string {
	return xmlHeader +
		`<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="` + relsNS + `" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank" preserve="1">` +
		`<p:cSld name="Blank">` + emptyShapeTree + `</p:spTree></p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
		`</p:sldLayout>`
}

func slideLayoutRelsXML() string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="` + relsNS + `/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
		`</Relationships>`
}

// slideParts renders one slide and its relationship part. firstMedia
// is the 1-based index of the slide's first media file in ppt/media.
func slideParts(group []*domain.ValidatedImage, cells []rect, firstMedia int) (string, string) {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="` + relsNS + `" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld>` + whiteBackground + emptyShapeTree)

	for i, img := range group {
		cell := cells[i%len(cells)]
		place := placeInCell(img.Width, img.Height, cell)
		fmt.Fprintf(&b,
			`<p:pic>`+
				`<p:nvPicPr><p:cNvPr id="%d" name="Image %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
				`<p:blipFill><a:blip r:embed="rId%d"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
				`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
				`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
				`</p:pic>`,
			2+i, 1+i,
			2+i,
			emu(place.x), emu(place.y), emu(place.w), emu(place.h),
		)
	}

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)

	var r strings.Builder
	r.WriteString(xmlHeader)
	r.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	r.WriteString(`<Relationship Id="rId1" Type="` + relsNS + `/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	for i := range group {
		fmt.Fprintf(&r, `<Relationship Id="rId%d" Type="%s/image" Target="../media/image%d.jpeg"/>`, 2+i, relsNS, firstMedia+i)
	}
	r.WriteString(`</Relationships>`)

	return b.String(), r.String()
}

// themeXML is the smallest schema-valid theme: the master needs one to
// resolve its color map, even though no slide content references it.
func themeXML() string {
	const fills = `<a:fillStyleLst>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`</a:fillStyleLst>`
	const lines = `<a:lnStyleLst>` +
		`<a:ln w="9525"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
		`<a:ln w="25400"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
		`<a:ln w="38100"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
		`</a:lnStyleLst>`
	const effects = `<a:effectStyleLst>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`</a:effectStyleLst>`
	const bgFills = `<a:bgFillStyleLst>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`</a:bgFillStyleLst>`

	return xmlHeader +
		`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Plain">` +
		`<a:themeElements>` +
		`<a:clrScheme name="Plain">` +
		`<a:dk1><a:srgbClr val="000000"/></a:dk1>` +
		`<a:lt1><a:srgbClr val="FFFFFF"/></a:lt1>` +
		`<a:dk2><a:srgbClr val="1F1F1F"/></a:dk2>` +
		`<a:lt2><a:srgbClr val="F0F0F0"/></a:lt2>` +
		`<a:accent1><a:srgbClr val="4472C4"/></a:accent1>` +
		`<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
		`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>` +
		`<a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
		`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>` +
		`<a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
		`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>` +
		`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
		`</a:clrScheme>` +
		`<a:fontScheme name="Plain">` +
		`<a:majorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
		`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
		`</a:fontScheme>` +
		`<a:fmtScheme name="Plain">` + fills + lines + effects + bgFills + `</a:fmtScheme>` +
		`</a:themeElements>` +
		`</a:theme>`
}
