package timeline

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    YearMonth
		present bool
	}{
		{"iso year month", "2020-01", YearMonth{2020, 1}, false},
		{"slash year month", "2020/03", YearMonth{2020, 3}, false},
		{"slash month year", "11/2023", YearMonth{2023, 11}, false},
		{"abbreviated month name", "Jan 2020", YearMonth{2020, 1}, false},
		{"full month name", "September 2019", YearMonth{2019, 9}, false},
		{"year only defaults to january", "2021", YearMonth{2021, 1}, false},
		{"full iso date", "2020-06-15", YearMonth{2020, 6}, false},
		{"embedded year", "circa 2019", YearMonth{2019, 1}, false},
		{"present marker", "Present", YearMonth{}, true},
		{"current marker", "CURRENT", YearMonth{}, true},
		{"now marker", "now", YearMonth{}, true},
		{"ongoing marker", "Ongoing", YearMonth{}, true},
		{"whitespace around marker", "  present  ", YearMonth{}, true},
		{"garbage", "soonish", YearMonth{}, false},
		{"empty", "", YearMonth{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if present != tt.present {
				t.Errorf("Parse(%q) present = %v, want %v", tt.input, present, tt.present)
			}
		})
	}
}

func TestMonthsUntil(t *testing.T) {
	tests := []struct {
		name string
		from YearMonth
		to   YearMonth
		want int
	}{
		{"same month", YearMonth{2020, 3}, YearMonth{2020, 3}, 0},
		{"within a year", YearMonth{2020, 1}, YearMonth{2020, 7}, 6},
		{"across years", YearMonth{2019, 11}, YearMonth{2021, 2}, 15},
		{"negative when reversed", YearMonth{2021, 2}, YearMonth{2019, 11}, -15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.MonthsUntil(tt.to); got != tt.want {
				t.Errorf("MonthsUntil = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestYearMonthJSON(t *testing.T) {
	ym := YearMonth{2022, 4}
	data, err := ym.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `"2022-04"` {
		t.Errorf("MarshalJSON = %s, want \"2022-04\"", data)
	}

	var zero YearMonth
	data, _ = zero.MarshalJSON()
	if string(data) != "null" {
		t.Errorf("zero MarshalJSON = %s, want null", data)
	}

	var parsed YearMonth
	if err := parsed.UnmarshalJSON([]byte(`"2022-04"`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if parsed != ym {
		t.Errorf("UnmarshalJSON = %v, want %v", parsed, ym)
	}
}
