// Package xmlfeed decodes the Roskomnadzor broadcast license open-data
// feed: one large XML document with repeated <record> elements, each
// describing a license issued to an organisation plus a grid of
// geographic broadcast placements.
package xmlfeed

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// Namespace is the single namespace the feed uses. Field tags below match
// on local names, so a feed exported with a different namespace prefix
// still decodes.
const Namespace = "http://rsoc.ru/opendata/7705846236-LicBroadcast"

// Feed is the decoded document. Records appear in document order.
type Feed struct {
	Records []Record `xml:"record"`
}

// Record is one broadcast license. All fields are raw element text;
// absence decodes to the empty string. Use the extractor helpers in
// fields.go for trimmed and typed access.
type Record struct {
	Status           string `xml:"status"`
	LicensedActivity string `xml:"licensed_activity"`
	OrgID            string `xml:"org_id"`
	OrgName          string `xml:"org_name"`
	OrgNameShort     string `xml:"org_name_short"`
	INN              string `xml:"inn"`
	OGRN             string `xml:"ogrn"`
	Address          string `xml:"address"`
	Phone            string `xml:"phone"`
	Email            string `xml:"email"`
	SmiName          string `xml:"smi_name"`
	Grid             Grid   `xml:"grid"`
}

// Grid holds the geographic placement rows of a record.
type Grid struct {
	Rows []GridRow `xml:"row"`
}

// GridRow is one geographic broadcast placement.
type GridRow struct {
	RegionName   string `xml:"region_name_full"`
	DistrictName string `xml:"region_text"`
	Population   string `xml:"population"`
	MountPoint   string `xml:"mount_point"`
	ChannelNum   string `xml:"channel_num"`
	Freq         string `xml:"freq"`
	Power        string `xml:"power"`
	BrcstTime    string `xml:"brcst_time"`
}

// Parse reads and decodes the whole feed file. Parsing is a single
// blocking operation: a malformed document yields an error and no
// records at all, never a partial sequence.
func Parse(path string) (*Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file %s: %w", path, err)
	}
	defer f.Close()

	feed, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML file %s: %w", path, err)
	}
	return feed, nil
}

// Decode decodes a feed from a reader.
func Decode(r io.Reader) (*Feed, error) {
	var feed Feed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, err
	}
	return &feed, nil
}
