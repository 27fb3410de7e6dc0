package rtos

import "testing"

func TestTaskInfoRoundTrip(t *testing.T) {
	want := TaskInfo{State: Ready, PID: 0x2000, Name: "flash", Time: 12345}
	buf, err := want.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got TaskInfo
	if err := got.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestTaskInfoTruncatesLongName(t *testing.T) {
	want := TaskInfo{Name: "this-name-is-way-too-long-for-the-field"}
	buf, _ := want.MarshalBinary()
	var got TaskInfo
	if err := got.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if len(got.Name) > MaxNameLen {
		t.Errorf("Name len = %d, want <= %d", len(got.Name), MaxNameLen)
	}
}

func TestSemaphoreInformationRoundTrip(t *testing.T) {
	want := SemaphoreInformation{
		Name:               "resource",
		Count:              2,
		WaitingTasksNumber: 1,
	}
	want.WaitQueue[0] = 0xBEEF
	buf, err := want.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got SemaphoreInformation
	if err := got.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestUnmarshalRejectsShortBuffer(t *testing.T) {
	var ti TaskInfo
	if err := ti.UnmarshalBinary([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for short buffer")
	}
	var si SemaphoreInformation
	if err := si.UnmarshalBinary([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for short buffer")
	}
}
