package tabular

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const portsCSV = `Hostname,Interface,Authentication,Scalable group,Data segment,Voice segment,Device type
edge-1,GigabitEthernet1/0/1,Closed Authentication,Employees,10_10_0_0-CAMPUS,10_20_0_0-VOICE,
edge-1,GigabitEthernet1/0/2,,,,,
edge-2,GigabitEthernet1/0/1,,,10_10_0_0-CAMPUS,, ACCESS_POINT

,GigabitEthernet1/0/9,,,,,
edge-1,GigabitEthernet1/0/3,,Guests,,,
`

func TestRead(t *testing.T) {
	table, err := Read(strings.NewReader(portsCSV), ',')
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(table.Header) != 7 || table.Header[5] != ColVoiceSegment {
		t.Errorf("Header = %v", table.Header)
	}
	if len(table.Rows) != 5 {
		t.Fatalf("len(Rows) = %d, want 5", len(table.Rows))
	}

	first := table.Rows[0]
	if first.Get(ColAuthentication) != "Closed Authentication" {
		t.Errorf("Authentication = %q", first.Get(ColAuthentication))
	}
	if first.Get(ColDeviceType) != "" {
		t.Errorf("Device type = %q, want empty", first.Get(ColDeviceType))
	}
	if got := table.Rows[2].Get(ColDeviceType); got != "ACCESS_POINT" {
		t.Errorf("Device type = %q, want trimmed ACCESS_POINT", got)
	}
	if got := first.Get("No such column"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}

	if err := table.Require(PortColumns...); err != nil {
		t.Errorf("Require() error = %v", err)
	}
	if err := table.Require(PoolColumns...); err == nil {
		t.Error("Require(PoolColumns) should fail on a port file")
	}
}

func TestRead_SemicolonAndShortRows(t *testing.T) {
	input := "\ufeffHostname;Interface;Data segment\nedge-1;Gi1/0/1\n"
	table, err := Read(strings.NewReader(input), ';')
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if table.Header[0] != ColHostname {
		t.Errorf("Header[0] = %q, BOM should be stripped", table.Header[0])
	}
	if len(table.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(table.Rows))
	}
	row := table.Rows[0]
	if row.Get(ColInterface) != "Gi1/0/1" {
		t.Errorf("Interface = %q", row.Get(ColInterface))
	}
	if v, ok := row[ColDataSegment]; !ok || v != "" {
		t.Errorf("short row should fill missing cells with empty strings, got %q, %v", v, ok)
	}
}

func TestRead_Empty(t *testing.T) {
	if _, err := Read(strings.NewReader(""), ','); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestRead_QuotedCells(t *testing.T) {
	input := "IP Pool Name,DNS Servers\nCampus,\"10.0.0.53, 10.0.1.53\"\n"
	table, err := Read(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	got := SplitList(table.Rows[0].Get(ColDNSServers))
	if !reflect.DeepEqual(got, []string{"10.0.0.53", "10.0.1.53"}) {
		t.Errorf("SplitList() = %v", got)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfs-import.csv")
	if err := os.WriteFile(path, []byte(portsCSV), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := ReadFile(path, ',')
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(table.Rows) != 5 {
		t.Errorf("len(Rows) = %d, want 5", len(table.Rows))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"), ','); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHostnamesAndForHost(t *testing.T) {
	table, err := Read(strings.NewReader(portsCSV), ',')
	if err != nil {
		t.Fatal(err)
	}

	hosts := Hostnames(table.Rows)
	if !reflect.DeepEqual(hosts, []string{"edge-1", "edge-2"}) {
		t.Errorf("Hostnames() = %v, want [edge-1 edge-2]", hosts)
	}

	rows := ForHost(table.Rows, "edge-1")
	if len(rows) != 3 {
		t.Fatalf("ForHost(edge-1) = %d rows, want 3", len(rows))
	}
	if rows[2].Get(ColInterface) != "GigabitEthernet1/0/3" {
		t.Errorf("rows should stay in file order, got %q", rows[2].Get(ColInterface))
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"10.0.0.1", []string{"10.0.0.1"}},
		{"10.0.0.1 10.0.0.2", []string{"10.0.0.1", "10.0.0.2"}},
		{"10.0.0.1,10.0.0.2, 10.0.0.3", []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}},
		{",10.0.0.1,", []string{"10.0.0.1"}},
	}

	for _, tt := range tests {
		if got := SplitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{
		"true": true, "TRUE": true, " True ": true,
		"false": false, "": false, "yes": false, "1": false,
	} {
		if got := ParseBool(in); got != want {
			t.Errorf("ParseBool(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{",", ',', false},
		{";", ';', false},
		{`\t`, '\t', false},
		{"tab", '\t', false},
		{";;", 0, true},
		{`"`, 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDelimiter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDelimiter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDelimiter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
