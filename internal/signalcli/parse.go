package signalcli

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"sigsetup/internal/domain"
)

var (
	// listAccounts lines look like "Number: +1234567890".
	accountRe = regexp.MustCompile(`\+[0-9]{5,}`)

	// listDevices lines look like "- Device 2 (created: ...): name".
	deviceRe = regexp.MustCompile(`Device\s+(\d+)`)
)

// parseAccounts extracts phone numbers from listAccounts output.
func parseAccounts(out string) []domain.PhoneNumber {
	var nums []domain.PhoneNumber
	seen := make(map[string]bool)
	for _, m := range accountRe.FindAllString(out, -1) {
		if seen[m] {
			continue
		}
		seen[m] = true
		nums = append(nums, domain.PhoneNumber(m))
	}
	return nums
}

// parseDevices extracts device IDs from listDevices output. The trailing part
// of the line, after any "(created: ...)" annotation, is kept as the device
// name.
func parseDevices(out string) []domain.Device {
	var devs []domain.Device
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		m := deviceRe.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(line[m[2]:m[3]])
		if err != nil {
			continue
		}
		name := strings.TrimSpace(line[m[1]:])
		if strings.HasPrefix(name, "(") {
			if i := strings.Index(name, ")"); i >= 0 {
				name = name[i+1:]
			}
		}
		name = strings.TrimPrefix(strings.TrimSpace(name), ":")
		devs = append(devs, domain.Device{ID: id, Name: strings.TrimSpace(name)})
	}
	return devs
}
