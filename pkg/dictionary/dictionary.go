package dictionary

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Row is one line of the BÍN "Sigrúnarsnið" export:
//
//	ord;bin_id;ofl;hluti;bmynd;mark
//
// e.g. "hestur;4543;kk;alm;hesti;ÞGFET". The richer KRISTINsnið export starts
// with the same six columns; anything after them is ignored.
type Row struct {
	Ord   string
	BinID int64
	Ofl   string
	Hluti string
	Bmynd string
	Mark  string
}

// ErrMalformedLine is returned by ParseLine for lines that do not carry the six
// Sigrúnarsnið columns.
var ErrMalformedLine = errors.New("malformed BÍN line")

// ParseLine parses one CSV line. Text fields are returned in Unicode NFC.
func ParseLine(line string) (Row, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, ";")
	if len(fields) < 6 {
		return Row{}, fmt.Errorf("%w: expected 6 fields, got %d", ErrMalformedLine, len(fields))
	}
	id, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return Row{}, fmt.Errorf("%w: bad id %q", ErrMalformedLine, fields[1])
	}
	r := Row{
		Ord:   norm.NFC.String(strings.TrimSpace(fields[0])),
		BinID: id,
		Ofl:   strings.TrimSpace(fields[2]),
		Hluti: strings.TrimSpace(fields[3]),
		Bmynd: norm.NFC.String(strings.TrimSpace(fields[4])),
		Mark:  norm.NFC.String(strings.TrimSpace(fields[5])),
	}
	if r.Ord == "" || r.Bmynd == "" || r.Ofl == "" {
		return Row{}, fmt.Errorf("%w: empty lemma, class or form", ErrMalformedLine)
	}
	return r, nil
}

// Open returns a reader over the CSV data at path. Zip archives, as published
// by Árni Magnússon Institute, are opened transparently: the first .csv
// member is returned.
func Open(path string) (io.ReadCloser, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".zip") {
		return os.Open(path)
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			zr.Close()
			return nil, fmt.Errorf("open %s in archive: %w", f.Name, err)
		}
		return &zipMember{ReadCloser: rc, archive: zr}, nil
	}
	zr.Close()
	return nil, fmt.Errorf("no csv file found in %s", path)
}

type zipMember struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipMember) Close() error {
	err := z.ReadCloser.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}
