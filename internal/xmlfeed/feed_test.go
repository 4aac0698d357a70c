package xmlfeed

import (
	"strings"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="utf-8"?>
<data xmlns="http://rsoc.ru/opendata/7705846236-LicBroadcast">
  <record>
    <status>действующая</status>
    <licensed_activity>Радиовещание радиоканала</licensed_activity>
    <org_id>101</org_id>
    <org_name>ООО Радио Пример</org_name>
    <org_name_short>Радио Пример</org_name_short>
    <inn>7701234567</inn>
    <ogrn>1027700012345</ogrn>
    <smi_name>Пример FM</smi_name>
    <grid>
      <row>
        <region_name_full>Московская область</region_name_full>
        <region_text>г. Подольск</region_text>
        <population>299,7</population>
        <mount_point>г. Подольск</mount_point>
        <channel_num></channel_num>
        <freq>101.5 МГц</freq>
        <power>1 кВт</power>
        <brcst_time>ежедневно, круглосуточно</brcst_time>
      </row>
      <row>
        <region_name_full>Московская область</region_name_full>
        <region_text>г. Чехов</region_text>
        <population>70.1</population>
      </row>
    </grid>
  </record>
  <record>
    <status>аннулированная</status>
    <licensed_activity>Радиовещание радиоканала</licensed_activity>
    <org_id>102</org_id>
  </record>
</data>`

func TestDecode(t *testing.T) {
	feed, err := Decode(strings.NewReader(sampleFeed))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(feed.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(feed.Records))
	}

	rec := feed.Records[0]
	if rec.Status != "действующая" {
		t.Errorf("Expected status 'действующая', got %q", rec.Status)
	}
	if rec.OrgID != "101" {
		t.Errorf("Expected org_id '101', got %q", rec.OrgID)
	}
	if rec.SmiName != "Пример FM" {
		t.Errorf("Expected smi_name 'Пример FM', got %q", rec.SmiName)
	}
	if len(rec.Grid.Rows) != 2 {
		t.Fatalf("Expected 2 grid rows, got %d", len(rec.Grid.Rows))
	}

	row := rec.Grid.Rows[0]
	if row.RegionName != "Московская область" {
		t.Errorf("Expected region 'Московская область', got %q", row.RegionName)
	}
	if row.DistrictName != "г. Подольск" {
		t.Errorf("Expected district 'г. Подольск', got %q", row.DistrictName)
	}
	if row.Population != "299,7" {
		t.Errorf("Expected population '299,7', got %q", row.Population)
	}

	// Absent fields decode to the empty string, not an error
	if feed.Records[1].SmiName != "" {
		t.Errorf("Expected empty smi_name for second record, got %q", feed.Records[1].SmiName)
	}
}

func TestDecodeIgnoresNamespacePrefix(t *testing.T) {
	prefixed := `<?xml version="1.0"?>
<d:data xmlns:d="http://rsoc.ru/opendata/7705846236-LicBroadcast">
  <d:record>
    <d:status>действующая</d:status>
    <d:org_id>7</d:org_id>
  </d:record>
</d:data>`

	feed, err := Decode(strings.NewReader(prefixed))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(feed.Records) != 1 || feed.Records[0].OrgID != "7" {
		t.Errorf("Expected 1 record with org_id '7', got %+v", feed.Records)
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`<data><record><status>действующая</record>`))
	if err == nil {
		t.Fatal("Expected error for malformed XML, got nil")
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse("does-not-exist.xml")
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Радио  ", "Радио"},
		{"\n\tvalue\n", "value"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := Text(tt.input); got != tt.expected {
			t.Errorf("Text(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestOptionalInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		ok       bool
	}{
		{"123", 123, true},
		{" 45 ", 45, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12.5", 0, false},
	}

	for _, tt := range tests {
		got, ok := OptionalInt(tt.input)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("OptionalInt(%q) = (%d, %v), expected (%d, %v)", tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestOptionalFloat(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"12.5", 12.5, true},
		{"12,5", 12.5, true},
		{" 0,75 ", 0.75, true},
		{"300", 300, true},
		{"", 0, false},
		{"н/д", 0, false},
	}

	for _, tt := range tests {
		got, ok := OptionalFloat(tt.input)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("OptionalFloat(%q) = (%v, %v), expected (%v, %v)", tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}
