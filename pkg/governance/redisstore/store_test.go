package redisstore

import "testing"

func TestParseCASReply(t *testing.T) {
	tests := []struct {
		name        string
		reply       interface{}
		wantStatus  string
		wantSwapped bool
		wantErr     bool
	}{
		{"swapped", []interface{}{int64(1), "frozen"}, "frozen", true, false},
		{"not_swapped", []interface{}{int64(0), "active"}, "active", false, false},
		{"not_a_slice", "OK", "", false, true},
		{"short_slice", []interface{}{int64(1)}, "", false, true},
		{"flag_wrong_type", []interface{}{"1", "frozen"}, "", false, true},
		{"status_wrong_type", []interface{}{int64(1), int64(2)}, "", false, true},
		{"nil_reply", nil, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, swapped, err := parseCASReply(tt.reply)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if status != tt.wantStatus || swapped != tt.wantSwapped {
				t.Errorf("parseCASReply = (%q, %v), want (%q, %v)", status, swapped, tt.wantStatus, tt.wantSwapped)
			}
		})
	}
}
