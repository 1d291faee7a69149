package services

import "time"

// LineStatus mirrors the shape the dashboard's status strip renders.
type LineStatus struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TrainArrival struct {
	ID              string    `json:"id"`
	Destination     string    `json:"destination"`
	ExpectedArrival time.Time `json:"expectedArrival"`
	PlatformName    string    `json:"platformName"`
	LineID          string    `json:"lineId"`
	LineName        string    `json:"lineName"`
	Status          string    `json:"status"`
	CurrentLocation string    `json:"currentLocation,omitempty"`
}

// NetworkService serves the static network-status feed the dashboard
// panels consume. No live telemetry source is wired; data is a fixed
// snapshot stamped with the request time.
type NetworkService struct {
	now func() time.Time
}

func NewNetworkService() *NetworkService {
	return &NetworkService{now: time.Now}
}

func (s *NetworkService) LineStatuses() []LineStatus {
	now := s.now()
	return []LineStatus{
		{ID: "bakerloo", Name: "Bakerloo Line", Status: "Good Service", Description: "Running normally", UpdatedAt: now},
		{ID: "central", Name: "Central Line", Status: "Minor Delays", Description: "Minor delays due to signal failure at Liverpool Street", UpdatedAt: now},
		{ID: "circle", Name: "Circle Line", Status: "Good Service", Description: "Running normally", UpdatedAt: now},
		{ID: "district", Name: "District Line", Status: "Part Closure", Description: "No service between Earls Court and Wimbledon", UpdatedAt: now},
		{ID: "jubilee", Name: "Jubilee Line", Status: "Good Service", Description: "Running normally", UpdatedAt: now},
		{ID: "northern", Name: "Northern Line", Status: "Severe Delays", Description: "Severe delays due to earlier track fault at Camden Town", UpdatedAt: now},
		{ID: "piccadilly", Name: "Piccadilly Line", Status: "Good Service", Description: "Running normally", UpdatedAt: now},
		{ID: "victoria", Name: "Victoria Line", Status: "Good Service", Description: "Running normally", UpdatedAt: now},
	}
}

func (s *NetworkService) StationArrivals(stationID string) []TrainArrival {
	now := s.now()
	return []TrainArrival{
		{
			ID:              "1",
			Destination:     "Morden via Bank",
			ExpectedArrival: now.Add(2 * time.Minute),
			PlatformName:    "Southbound - Platform 2",
			LineID:          "northern",
			LineName:        "Northern Line",
			Status:          "On Time",
			CurrentLocation: "Approaching",
		},
		{
			ID:              "2",
			Destination:     "Edgware via Charing Cross",
			ExpectedArrival: now.Add(4 * time.Minute),
			PlatformName:    "Northbound - Platform 1",
			LineID:          "northern",
			LineName:        "Northern Line",
			Status:          "On Time",
			CurrentLocation: "2 mins away",
		},
		{
			ID:              "3",
			Destination:     "Heathrow Terminal 5",
			ExpectedArrival: now.Add(5 * time.Minute),
			PlatformName:    "Westbound - Platform 3",
			LineID:          "piccadilly",
			LineName:        "Piccadilly Line",
			Status:          "Delayed",
			CurrentLocation: "Departing previous station",
		},
	}
}
