package source

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"strings"
)

// pageSep отделяет номер страницы PDF в записи сценария: "deck.pdf#3".
const pageSep = "#"

// PageRef формирует запись сценария для страницы index (с нуля) PDF.
func PageRef(path string, index int) string {
	return path + pageSep + strconv.Itoa(index+1)
}

// ParsePageRef разбирает "файл.pdf#N"; для обычных файлов page = -1.
func ParsePageRef(ref string) (path string, page int, err error) {
	i := strings.LastIndex(ref, pageSep)
	if i < 0 || !strings.EqualFold(filepath.Ext(ref[:i]), ".pdf") {
		return ref, -1, nil
	}
	n, err := strconv.Atoi(ref[i+1:])
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("некорректный номер страницы в %q", ref)
	}
	return ref[:i], n - 1, nil
}

type listEntry struct {
	path string
	page int // -1 — изображение
}

// ListSource — слайды в порядке сценария: изображения и отдельные
// страницы PDF вперемешку.
type ListSource struct {
	entries []listEntry
	images  *ImageSource
	docs    map[string]*FitzPDFSource
}

func NewListSource(inputs []string) (*ListSource, error) {
	s := &ListSource{docs: make(map[string]*FitzPDFSource)}
	var paths []string
	for _, in := range inputs {
		path, page, err := ParsePageRef(in)
		if err != nil {
			s.Close()
			return nil, err
		}
		if page < 0 {
			s.entries = append(s.entries, listEntry{path: path, page: len(paths)})
			paths = append(paths, path)
			continue
		}
		if _, ok := s.docs[path]; !ok {
			doc, err := NewFitzPDFSource(path)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.docs[path] = doc
		}
		if page >= s.docs[path].PageCount() {
			s.Close()
			return nil, fmt.Errorf("%s: нет страницы %d", path, page+1)
		}
		s.entries = append(s.entries, listEntry{path: path, page: page})
	}
	s.images = NewImageSourceFromPaths(paths)
	return s, nil
}

func (s *ListSource) PageCount() int {
	return len(s.entries)
}

// resolve возвращает источник и индекс внутри него.
func (s *ListSource) resolve(index int) (Source, int, error) {
	if index < 0 || index >= len(s.entries) {
		return nil, 0, fmt.Errorf("слайд %d вне диапазона [0, %d)", index, len(s.entries))
	}
	e := s.entries[index]
	if doc, ok := s.docs[e.path]; ok {
		return doc, e.page, nil
	}
	return s.images, e.page, nil
}

func (s *ListSource) GetPageDimensions(index int) (float64, float64, error) {
	src, i, err := s.resolve(index)
	if err != nil {
		return 0, 0, err
	}
	return src.GetPageDimensions(i)
}

func (s *ListSource) RenderPage(index int, dpi int) (image.Image, error) {
	src, i, err := s.resolve(index)
	if err != nil {
		return nil, err
	}
	return src.RenderPage(i, dpi)
}

// Inputs возвращает записи сценария для всех слайдов.
func (s *ListSource) Inputs() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		if _, ok := s.docs[e.path]; ok {
			out[i] = PageRef(e.path, e.page)
		} else {
			out[i] = e.path
		}
	}
	return out
}

func (s *ListSource) Close() error {
	var errs []error
	for _, doc := range s.docs {
		errs = append(errs, doc.Close())
	}
	return errors.Join(errs...)
}
