package gpx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"whooshsync/internal/activity"
)

// ErrNoGPSData is returned when the activity carries no position samples.
// Indoor activities legitimately lack GPS, so this is an expected outcome,
// not a failure of the converter.
var ErrNoGPSData = errors.New("activity has no gps data")

const (
	xmlnsGPX = "http://www.topografix.com/GPX/1/1"
	xmlnsXSI = "http://www.w3.org/2001/XMLSchema-instance"
	xmlnsTPX = "http://www.garmin.com/xmlschemas/TrackPointExtension/v1"
)

type gpxDoc struct {
	XMLName  xml.Name `xml:"gpx"`
	Version  string   `xml:"version,attr"`
	Creator  string   `xml:"creator,attr"`
	Xmlns    string   `xml:"xmlns,attr"`
	XmlnsXSI string   `xml:"xmlns:xsi,attr"`
	XmlnsTPX string   `xml:"xmlns:gpxtpx,attr"`
	Metadata metadata `xml:"metadata"`
	Trk      trk      `xml:"trk"`
}

type metadata struct {
	Name string `xml:"name"`
	Time string `xml:"time"`
}

type trk struct {
	Name   string `xml:"name"`
	Type   string `xml:"type"`
	Trkseg trkseg `xml:"trkseg"`
}

type trkseg struct {
	Points []trkpt `xml:"trkpt"`
}

type trkpt struct {
	Lat        string      `xml:"lat,attr"`
	Lon        string      `xml:"lon,attr"`
	Time       string      `xml:"time"`
	Ele        string      `xml:"ele,omitempty"`
	Extensions *extensions `xml:"extensions,omitempty"`
}

type extensions struct {
	TPX tpx `xml:"gpxtpx:TrackPointExtension"`
}

type tpx struct {
	HR    string `xml:"gpxtpx:hr,omitempty"`
	Cad   string `xml:"gpxtpx:cad,omitempty"`
	Power string `xml:"gpxtpx:power,omitempty"`
}

// FromActivity renders an activity as an indented GPX 1.1 document with
// Garmin track-point extensions. One track point is emitted per sample that
// carries a position; heart rate, cadence, power and elevation are attached
// only where the sample has them.
func FromActivity(act *activity.Activity) ([]byte, error) {
	doc := gpxDoc{
		Version:  "1.1",
		Creator:  "whooshsync",
		Xmlns:    xmlnsGPX,
		XmlnsXSI: xmlnsXSI,
		XmlnsTPX: xmlnsTPX,
		Metadata: metadata{
			Name: act.Name,
			Time: act.StartTime.UTC().Format(time.RFC3339),
		},
		Trk: trk{Name: act.Name, Type: act.Sport},
	}

	for _, s := range act.Samples {
		if s.Lat == nil || s.Lon == nil {
			continue
		}
		pt := trkpt{
			Lat:  formatCoord(*s.Lat),
			Lon:  formatCoord(*s.Lon),
			Time: act.StartTime.Add(time.Duration(s.Offset * float64(time.Second))).UTC().Format(time.RFC3339),
		}
		if s.Altitude != nil {
			pt.Ele = strconv.FormatFloat(*s.Altitude, 'f', -1, 64)
		}
		if s.HeartRate != nil || s.Cadence != nil || s.Power != nil {
			ext := &extensions{}
			if s.HeartRate != nil {
				ext.TPX.HR = strconv.Itoa(int(*s.HeartRate))
			}
			if s.Cadence != nil {
				ext.TPX.Cad = strconv.Itoa(int(*s.Cadence))
			}
			if s.Power != nil {
				ext.TPX.Power = strconv.Itoa(int(*s.Power))
			}
			pt.Extensions = ext
		}
		doc.Trk.Trkseg.Points = append(doc.Trk.Trkseg.Points, pt)
	}

	if len(doc.Trk.Trkseg.Points) == 0 {
		return nil, ErrNoGPSData
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode gpx: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// formatCoord keeps a trailing ".0" on whole-number coordinates so that
// lat="1.0" round-trips the way GPS consumers print it.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
