package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Edge-port file columns
const (
	ColHostname       = "Hostname"
	ColInterface      = "Interface"
	ColAuthentication = "Authentication"
	ColScalableGroup  = "Scalable group"
	ColDataSegment    = "Data segment"
	ColVoiceSegment   = "Voice segment"
	ColDeviceType     = "Device type"
)

// IP-pool file columns
const (
	ColPoolName       = "IP Pool Name"
	ColPoolCIDR       = "IP Pool CIDR"
	ColDHCPServers    = "DHCP Servers"
	ColDNSServers     = "DNS Servers"
	ColGateway        = "Gateway"
	ColOverlapping    = "Overlapping"
	ColFabric         = "Fabric"
	ColVirtualNetwork = "Virtual Network"
	ColTrafficType    = "Traffic Type"
	ColLayer2         = "Layer 2"
	ColAPProvision    = "AP Provision"
)

// DefaultDelimiter separates fields unless configured otherwise
const DefaultDelimiter = ','

// PortColumns lists the columns an edge-port file must carry
var PortColumns = []string{
	ColHostname, ColInterface, ColAuthentication, ColScalableGroup,
	ColDataSegment, ColVoiceSegment,
}

// PoolColumns lists the columns an IP-pool file must carry
var PoolColumns = []string{
	ColPoolName, ColPoolCIDR, ColDHCPServers, ColDNSServers, ColGateway,
	ColOverlapping, ColFabric, ColVirtualNetwork, ColTrafficType, ColLayer2,
	ColAPProvision,
}

// Row is one data line keyed by column header
type Row map[string]string

// Get returns the trimmed cell for column, empty when the column is absent
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Table is a parsed file: its header and its data rows
type Table struct {
	Header []string
	Rows   []Row
}

// Require checks that every named column is present in the header
func (t *Table) Require(columns ...string) error {
	have := make(map[string]bool, len(t.Header))
	for _, h := range t.Header {
		have[h] = true
	}

	var missing []string
	for _, c := range columns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// Read parses delimited text whose first line is the header
func Read(r io.Reader, delimiter rune) (*Table, error) {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		row := make(Row, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ReadFile parses the file at path
func ReadFile(path string, delimiter rune) (*Table, error) {
	f, err := os.Open(path) // #nosec G304 -- path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	table, err := Read(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ParseDelimiter converts a configured delimiter into a rune. "\t" and "tab"
// select a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return DefaultDelimiter, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

// Hostnames returns the distinct non-empty hostnames in first-seen order
func Hostnames(rows []Row) []string {
	seen := make(map[string]bool)
	var hosts []string
	for _, row := range rows {
		host := row.Get(ColHostname)
		if host == "" || seen[host] {
			continue
		}
		seen[host] = true
		hosts = append(hosts, host)
	}
	return hosts
}

// ForHost returns the rows naming host, in file order
func ForHost(rows []Row, host string) []Row {
	var out []Row
	for _, row := range rows {
		if row.Get(ColHostname) == host {
			out = append(out, row)
		}
	}
	return out
}

var listSeparator = regexp.MustCompile(`[\s,]+`)

// SplitList splits a cell on whitespace and commas
func SplitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	parts := listSeparator.Split(s, -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseBool reports whether the cell says "true", ignoring case
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
