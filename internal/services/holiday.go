package services

import (
	"time"

	"github.com/6tail/lunar-go/HolidayUtil"
	"github.com/6tail/lunar-go/calendar"
	"github.com/huangang/projectpulse/internal/models"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/at"
	"github.com/rickar/cal/v2/au"
	"github.com/rickar/cal/v2/be"
	"github.com/rickar/cal/v2/br"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/ch"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/dk"
	"github.com/rickar/cal/v2/es"
	"github.com/rickar/cal/v2/fi"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/ie"
	"github.com/rickar/cal/v2/it"
	"github.com/rickar/cal/v2/jp"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/no"
	"github.com/rickar/cal/v2/nz"
	"github.com/rickar/cal/v2/pl"
	"github.com/rickar/cal/v2/pt"
	"github.com/rickar/cal/v2/se"
	"github.com/rickar/cal/v2/us"
)

const (
	// HolidayCountryChina uses the lunar-go statutory calendar, including make-up workdays.
	HolidayCountryChina = "CN"
	// HolidayCountryNone counts Monday through Friday only.
	HolidayCountryNone = "NONE"
)

type CountryInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type countryCalendar struct {
	CountryInfo
	holidays []*cal.Holiday
}

var businessCountries = []countryCalendar{
	{CountryInfo{"US", "United States"}, us.Holidays},
	{CountryInfo{"GB", "United Kingdom"}, gb.Holidays},
	{CountryInfo{"DE", "Germany"}, de.Holidays},
	{CountryInfo{"FR", "France"}, fr.Holidays},
	{CountryInfo{"JP", "Japan"}, jp.Holidays},
	{CountryInfo{"AU", "Australia"}, au.HolidaysNSW},
	{CountryInfo{"CA", "Canada"}, ca.Holidays},
	{CountryInfo{"NZ", "New Zealand"}, nz.Holidays},
	{CountryInfo{"IT", "Italy"}, it.Holidays},
	{CountryInfo{"ES", "Spain"}, es.Holidays},
	{CountryInfo{"NL", "Netherlands"}, nl.Holidays},
	{CountryInfo{"BE", "Belgium"}, be.Holidays},
	{CountryInfo{"AT", "Austria"}, at.Holidays},
	{CountryInfo{"CH", "Switzerland"}, ch.Holidays},
	{CountryInfo{"SE", "Sweden"}, se.Holidays},
	{CountryInfo{"NO", "Norway"}, no.Holidays},
	{CountryInfo{"DK", "Denmark"}, dk.Holidays},
	{CountryInfo{"FI", "Finland"}, fi.Holidays},
	{CountryInfo{"PL", "Poland"}, pl.Holidays},
	{CountryInfo{"PT", "Portugal"}, pt.Holidays},
	{CountryInfo{"IE", "Ireland"}, ie.Holidays},
	{CountryInfo{"BR", "Brazil"}, br.Holidays},
}

// HolidayService answers workday questions for deadline countdowns.
type HolidayService struct {
	calendars map[string]*cal.BusinessCalendar
}

func NewHolidayService() *HolidayService {
	s := &HolidayService{
		calendars: make(map[string]*cal.BusinessCalendar, len(businessCountries)),
	}
	for _, c := range businessCountries {
		bc := cal.NewBusinessCalendar()
		bc.Name = c.Name
		bc.AddHoliday(c.holidays...)
		s.calendars[c.Code] = bc
	}
	return s
}

// IsWorkday falls back to plain weekdays for unknown country codes.
func (s *HolidayService) IsWorkday(t time.Time, countryCode string) bool {
	if countryCode == HolidayCountryChina {
		return isWorkdayChina(t)
	}
	if c, ok := s.calendars[countryCode]; ok {
		return c.IsWorkday(t)
	}
	return !cal.IsWeekend(t)
}

func isWorkdayChina(t time.Time) bool {
	solar := calendar.NewSolarFromDate(t)
	if holiday := HolidayUtil.GetHolidayByYmd(solar.GetYear(), solar.GetMonth(), solar.GetDay()); holiday != nil {
		return holiday.IsWork()
	}
	return !cal.IsWeekend(t)
}

// WorkdaysBetween counts workdays in (from, to]. It is 0 when to is not after from.
func (s *HolidayService) WorkdaysBetween(from, to time.Time, countryCode string) int {
	start := models.DateOf(from)
	end := models.DateOf(to)
	n := 0
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if s.IsWorkday(d, countryCode) {
			n++
		}
	}
	return n
}

func (s *HolidayService) SupportedCountries() []CountryInfo {
	countries := make([]CountryInfo, 0, len(businessCountries)+2)
	countries = append(countries, CountryInfo{HolidayCountryChina, "China"})
	for _, c := range businessCountries {
		countries = append(countries, c.CountryInfo)
	}
	return append(countries, CountryInfo{HolidayCountryNone, "Weekdays Only (Mon-Fri)"})
}
