package holiday

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yml
var dataFS embed.FS

// Type 는 휴일 성격 태그다.
type Type string

const (
	TypeGiftGiving    Type = "gift-giving"
	TypeShopping      Type = "shopping"
	TypeCelebration   Type = "celebration"
	TypeSeasonal      Type = "seasonal"
	TypeFestival      Type = "festival"
	TypePatriotic     Type = "patriotic"
	TypeEnvironmental Type = "environmental"
)

// Holiday 는 국가별 달력상의 기념일이다. 로드 이후 불변.
type Holiday struct {
	Date time.Time
	Name string
	Type Type
}

// Calendar 는 국가 코드별 휴일 테이블이다.
type Calendar struct {
	byCountry map[string][]Holiday
}

type holidayFile struct {
	Country  string `yaml:"country"`
	Year     int    `yaml:"year"`
	Holidays []struct {
		Date string `yaml:"date"`
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	} `yaml:"holidays"`
}

// NewCalendar 는 내장 YAML 테이블을 로드한다.
func NewCalendar() (*Calendar, error) {
	return loadCalendar(dataFS, "data")
}

func loadCalendar(fsys fs.FS, dir string) (*Calendar, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("glob holiday dir: %w", err)
	}

	byCountry := make(map[string][]Holiday)
	for _, filePath := range paths {
		raw, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("read holiday file: %w", err)
		}

		var file holidayFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse holiday yaml %s: %w", filePath, err)
		}

		country := strings.ToUpper(strings.TrimSpace(file.Country))
		if country == "" {
			return nil, fmt.Errorf("holiday file %s missing country", filePath)
		}

		entries := make([]Holiday, 0, len(file.Holidays))
		for _, item := range file.Holidays {
			date, err := time.Parse("2006-01-02", item.Date)
			if err != nil {
				return nil, fmt.Errorf("parse holiday date %q in %s: %w", item.Date, filePath, err)
			}
			if item.Name == "" {
				return nil, fmt.Errorf("holiday on %s in %s missing name", item.Date, filePath)
			}
			entries = append(entries, Holiday{
				Date: date,
				Name: item.Name,
				Type: Type(item.Type),
			})
		}

		sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
		byCountry[country] = entries
	}

	return &Calendar{byCountry: byCountry}, nil
}

// Upcoming 는 [from, from+days] 구간의 휴일을 날짜 오름차순으로 반환한다.
// 미지원 국가는 빈 슬라이스를 반환한다.
func (c *Calendar) Upcoming(country string, from time.Time, days int) []Holiday {
	entries, ok := c.byCountry[strings.ToUpper(strings.TrimSpace(country))]
	if !ok || days < 0 {
		return nil
	}

	start := truncateToDay(from)
	end := start.AddDate(0, 0, days)

	upcoming := make([]Holiday, 0)
	for _, h := range entries {
		if h.Date.Before(start) {
			continue
		}
		if h.Date.After(end) {
			break
		}
		upcoming = append(upcoming, h)
	}
	return upcoming
}

// On 는 특정 날짜의 휴일을 반환한다. 같은 날에 여러 개면 관련도가 높은 쪽을 고른다.
func (c *Calendar) On(country string, date time.Time) (Holiday, bool) {
	entries, ok := c.byCountry[strings.ToUpper(strings.TrimSpace(country))]
	if !ok {
		return Holiday{}, false
	}

	target := truncateToDay(date)
	best := Holiday{}
	found := false
	for _, h := range entries {
		if !h.Date.Equal(target) {
			continue
		}
		if !found || RelevanceScore(h, "") > RelevanceScore(best, "") {
			best = h
			found = true
		}
	}
	return best, found
}

// Countries 는 로드된 국가 코드 목록을 반환한다.
func (c *Calendar) Countries() []string {
	countries := make([]string, 0, len(c.byCountry))
	for country := range c.byCountry {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
