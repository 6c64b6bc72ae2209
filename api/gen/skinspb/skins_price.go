// Package skinspb contains the Go bindings for api/skins_price.proto. The
// messages are maintained by hand in the legacy generated form (struct tags
// carry the field numbers; grpc-go adapts them through protoadapt), which
// keeps the build free of a protoc step while staying wire-compatible with
// the checked-in proto definition. Keep this file in sync with the proto.
package skinspb

import "fmt"

// PriceSubscriptionRequest selects the skins to stream. An empty SkinIds
// subscribes to every tracked skin.
type PriceSubscriptionRequest struct {
	SkinIds []string `protobuf:"bytes,1,rep,name=skin_ids,json=skinIds,proto3" json:"skin_ids,omitempty"`
}

func (m *PriceSubscriptionRequest) Reset()         { *m = PriceSubscriptionRequest{} }
func (m *PriceSubscriptionRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*PriceSubscriptionRequest) ProtoMessage()    {}

func (m *PriceSubscriptionRequest) GetSkinIds() []string {
	if m != nil {
		return m.SkinIds
	}
	return nil
}

// PriceUpdate is one tick notification for one skin.
type PriceUpdate struct {
	SkinId           string  `protobuf:"bytes,1,opt,name=skin_id,json=skinId,proto3" json:"skin_id,omitempty"`
	SkinName         string  `protobuf:"bytes,2,opt,name=skin_name,json=skinName,proto3" json:"skin_name,omitempty"`
	Price            float64 `protobuf:"fixed64,3,opt,name=price,proto3" json:"price,omitempty"`
	Timestamp        string  `protobuf:"bytes,4,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	ChangePercentage float64 `protobuf:"fixed64,5,opt,name=change_percentage,json=changePercentage,proto3" json:"change_percentage,omitempty"`
}

func (m *PriceUpdate) Reset()         { *m = PriceUpdate{} }
func (m *PriceUpdate) String() string { return fmt.Sprintf("%+v", *m) }
func (*PriceUpdate) ProtoMessage()    {}

func (m *PriceUpdate) GetSkinId() string {
	if m != nil {
		return m.SkinId
	}
	return ""
}

func (m *PriceUpdate) GetSkinName() string {
	if m != nil {
		return m.SkinName
	}
	return ""
}

func (m *PriceUpdate) GetPrice() float64 {
	if m != nil {
		return m.Price
	}
	return 0
}

func (m *PriceUpdate) GetTimestamp() string {
	if m != nil {
		return m.Timestamp
	}
	return ""
}

func (m *PriceUpdate) GetChangePercentage() float64 {
	if m != nil {
		return m.ChangePercentage
	}
	return 0
}

// PriceHistoryRequest asks for the bounded history of one skin.
type PriceHistoryRequest struct {
	SkinId    string `protobuf:"bytes,1,opt,name=skin_id,json=skinId,proto3" json:"skin_id,omitempty"`
	TimeRange string `protobuf:"bytes,2,opt,name=time_range,json=timeRange,proto3" json:"time_range,omitempty"`
}

func (m *PriceHistoryRequest) Reset()         { *m = PriceHistoryRequest{} }
func (m *PriceHistoryRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*PriceHistoryRequest) ProtoMessage()    {}

func (m *PriceHistoryRequest) GetSkinId() string {
	if m != nil {
		return m.SkinId
	}
	return ""
}

func (m *PriceHistoryRequest) GetTimeRange() string {
	if m != nil {
		return m.TimeRange
	}
	return ""
}

// PricePoint is one observed price within a history.
type PricePoint struct {
	Price     float64 `protobuf:"fixed64,1,opt,name=price,proto3" json:"price,omitempty"`
	Timestamp string  `protobuf:"bytes,2,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *PricePoint) Reset()         { *m = PricePoint{} }
func (m *PricePoint) String() string { return fmt.Sprintf("%+v", *m) }
func (*PricePoint) ProtoMessage()    {}

func (m *PricePoint) GetPrice() float64 {
	if m != nil {
		return m.Price
	}
	return 0
}

func (m *PricePoint) GetTimestamp() string {
	if m != nil {
		return m.Timestamp
	}
	return ""
}

// PriceHistoryResponse carries the sliced history, oldest point first.
type PriceHistoryResponse struct {
	SkinId      string        `protobuf:"bytes,1,opt,name=skin_id,json=skinId,proto3" json:"skin_id,omitempty"`
	SkinName    string        `protobuf:"bytes,2,opt,name=skin_name,json=skinName,proto3" json:"skin_name,omitempty"`
	PricePoints []*PricePoint `protobuf:"bytes,3,rep,name=price_points,json=pricePoints,proto3" json:"price_points,omitempty"`
}

func (m *PriceHistoryResponse) Reset()         { *m = PriceHistoryResponse{} }
func (m *PriceHistoryResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*PriceHistoryResponse) ProtoMessage()    {}

func (m *PriceHistoryResponse) GetSkinId() string {
	if m != nil {
		return m.SkinId
	}
	return ""
}

func (m *PriceHistoryResponse) GetSkinName() string {
	if m != nil {
		return m.SkinName
	}
	return ""
}

func (m *PriceHistoryResponse) GetPricePoints() []*PricePoint {
	if m != nil {
		return m.PricePoints
	}
	return nil
}
