package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inovacc/wavelink/internal/model"
)

// Serialize renders devices in the flat export format: one line per device,
// "name,user,host,ip,password,port" followed by ",number,name,audio,time"
// for each task. Fields are written verbatim.
func Serialize(devices []model.Device) string {
	var b strings.Builder
	for _, d := range devices {
		appendDevice(&b, d)
	}

	return b.String()
}

// Write streams the export format for devices to w.
func Write(w io.Writer, devices []model.Device) error {
	bw := bufio.NewWriter(w)

	var b strings.Builder
	for _, d := range devices {
		b.Reset()
		appendDevice(&b, d)

		if _, err := bw.WriteString(b.String()); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func appendDevice(b *strings.Builder, d model.Device) {
	b.WriteString(d.Name)
	b.WriteByte(',')
	b.WriteString(d.User)
	b.WriteByte(',')
	b.WriteString(d.Host)
	b.WriteByte(',')
	b.WriteString(d.IP)
	b.WriteByte(',')
	b.WriteString(d.Password)
	b.WriteByte(',')
	b.WriteString(d.Number)

	for _, t := range d.Tasks {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(t.Number))
		b.WriteByte(',')
		b.WriteString(t.Name)
		b.WriteByte(',')
		b.WriteString(t.AudioFilePath)
		b.WriteByte(',')
		b.WriteString(t.Time)
	}

	b.WriteByte('\n')
}
