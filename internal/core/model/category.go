package model

import (
	"net/url"
	"path"
	"slices"
	"strings"
)

// Category is the coarse classification of a document driving
// which rendering strategy applies.
type Category string

const (
	CategoryPDF         Category = "pdf"
	CategoryWord        Category = "word"
	CategoryExcel       Category = "excel"
	CategoryPowerPoint  Category = "powerpoint"
	CategoryText        Category = "text"
	CategoryImage       Category = "image"
	CategoryUnsupported Category = "unsupported"
)

var categoryExtensions = []struct {
	category   Category
	extensions []string
}{
	{CategoryPDF, []string{".pdf"}},
	{CategoryWord, []string{".doc", ".docx", ".docm", ".dot", ".dotx"}},
	{CategoryExcel, []string{".xls", ".xlsx", ".xlsm", ".xlt", ".xltx"}},
	{CategoryPowerPoint, []string{".ppt", ".pptx", ".pptm", ".pot", ".potx"}},
	{CategoryText, []string{".txt", ".rtf", ".md", ".csv"}},
	{CategoryImage, []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".svg"}},
}

// Classify returns the category associated with the given file extension.
// The extension may be given with or without its leading dot.
// Unknown or empty extensions are classified as CategoryUnsupported.
func Classify(extension string) Category {
	ext := normalizeExtension(extension)
	if ext == "" {
		return CategoryUnsupported
	}

	for _, entry := range categoryExtensions {
		if slices.Contains(entry.extensions, ext) {
			return entry.category
		}
	}

	return CategoryUnsupported
}

// Extensions returns the file extensions associated with the category.
func (c Category) Extensions() []string {
	for _, entry := range categoryExtensions {
		if entry.category == c {
			return slices.Clone(entry.extensions)
		}
	}

	return []string{}
}

// Paginated returns true if documents of this category are rendered page by page.
func (c Category) Paginated() bool {
	return c == CategoryPDF
}

// Office returns true for word processing, spreadsheet and presentation documents.
func (c Category) Office() bool {
	switch c {
	case CategoryWord, CategoryExcel, CategoryPowerPoint:
		return true
	default:
		return false
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPDF, CategoryWord, CategoryExcel, CategoryPowerPoint, CategoryText, CategoryImage, CategoryUnsupported:
		return true
	default:
		return false
	}
}

// ExtensionOf extracts the lowercased extension (with its dot) of a document
// from its URL path, falling back to the given file name.
func ExtensionOf(u *url.URL, fileName string) string {
	if u != nil {
		if ext := normalizeExtension(path.Ext(u.Path)); ext != "" {
			return ext
		}
	}

	return normalizeExtension(path.Ext(fileName))
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}

	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return ext
}
