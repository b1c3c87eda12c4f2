package junit

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/v2/fileutil"
)

// node keeps every element and attribute of a report so it can be written back without loss.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func (n *node) attr(name string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

func (n *node) setAttr(name, value string) {
	for i, attr := range n.Attrs {
		if attr.Name.Local == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// trimLayout drops the whitespace only text the previous indentation left behind.
func (n *node) trimLayout() {
	if strings.TrimSpace(n.Content) == "" {
		n.Content = ""
	}
	for i := range n.Children {
		n.Children[i].trimLayout()
	}
}

func parse(data []byte) (node, error) {
	var root node
	if err := xml.Unmarshal(data, &root); err != nil {
		return node{}, fmt.Errorf("failed to parse JUnit report: %w", err)
	}
	return root, nil
}

// FormatElapsed renders a duration in seconds as TestRail expects it, for example 1h2m5s.
// Zero components are left out, under a second gives an empty string.
func FormatElapsed(seconds float64) string {
	total := int64(math.Floor(seconds))
	hours := total / 3600
	minutes := (total - hours*3600) / 60
	secs := total - hours*3600 - minutes*60

	var elapsed strings.Builder
	if hours > 0 {
		elapsed.WriteString(strconv.FormatInt(hours, 10) + "h")
	}
	if minutes > 0 {
		elapsed.WriteString(strconv.FormatInt(minutes, 10) + "m")
	}
	if secs > 0 {
		elapsed.WriteString(strconv.FormatInt(secs, 10) + "s")
	}
	return elapsed.String()
}

// ElapsedFromXML returns the formatted run time of a report, read from its root element.
func ElapsedFromXML(data []byte) (string, error) {
	root, err := parse(data)
	if err != nil {
		return "", err
	}

	value, ok := root.attr("time")
	if !ok {
		return "", fmt.Errorf("%s element has no time attribute", root.XMLName.Local)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return "", fmt.Errorf("invalid time attribute (%s): %w", value, err)
	}

	return FormatElapsed(seconds), nil
}

// Normalize names the report after feature and shortens the suite names to their last dotted segment.
func Normalize(data []byte, feature string) ([]byte, error) {
	root, err := parse(data)
	if err != nil {
		return nil, err
	}

	root.trimLayout()
	root.setAttr("name", feature)

	for i := range root.Children {
		suite := &root.Children[i]
		name, ok := suite.attr("name")
		if !ok {
			continue
		}
		suite.setAttr("name", SuiteName(name))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode JUnit report: %w", err)
	}
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

// SuiteName turns "login.spec.ts.User-can-log-in" into "User can log in".
func SuiteName(name string) string {
	name = name[strings.LastIndex(name, ".")+1:]
	return strings.ReplaceAll(name, "-", " ")
}

// Normalizer rewrites JUnit reports in place.
type Normalizer interface {
	NormalizeFile(pth, feature string) error
}

type normalizer struct {
	fileManager fileutil.FileManager
}

// NewNormalizer ...
func NewNormalizer(fileManager fileutil.FileManager) Normalizer {
	return &normalizer{fileManager: fileManager}
}

// NormalizeFile ...
func (n normalizer) NormalizeFile(pth, feature string) error {
	data, err := n.readFile(pth)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", pth, err)
	}

	normalized, err := Normalize(data, feature)
	if err != nil {
		return fmt.Errorf("%s: %w", pth, err)
	}

	if err := n.fileManager.Write(pth, string(normalized), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", pth, err)
	}
	return nil
}

func (n normalizer) readFile(pth string) ([]byte, error) {
	f, err := n.fileManager.Open(pth)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return io.ReadAll(f)
}
