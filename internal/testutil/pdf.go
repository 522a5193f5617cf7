package testutil

import (
	"bytes"
	"fmt"
	"strings"
)

// PDF returns a minimal valid PDF document with the given number of blank pages.
func PDF(pages int) []byte {
	var (
		buff    bytes.Buffer
		offsets []int
	)

	buff.WriteString("%PDF-1.4\n")

	writeObject := func(body string) {
		offsets = append(offsets, buff.Len())
		fmt.Fprintf(&buff, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	kids := make([]string, 0, pages)
	for i := 0; i < pages; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", i+3))
	}

	writeObject("<< /Type /Catalog /Pages 2 0 R >>")
	writeObject(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))

	for i := 0; i < pages; i++ {
		writeObject("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] /Resources << >> >>")
	}

	xref := buff.Len()

	fmt.Fprintf(&buff, "xref\n0 %d\n", len(offsets)+1)
	buff.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&buff, "%010d 00000 n \n", offset)
	}

	fmt.Fprintf(&buff, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buff.Bytes()
}
