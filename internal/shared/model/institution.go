package model

import "time"

// DefaultInstitutionName 首次读取时自动创建的机构名称
const DefaultInstitutionName = "Minha Instituição"

// Institution 机构信息（每个部署至多一条）
type Institution struct {
	ID        string    `json:"id" bson:"_id" db:"id"`
	Name      string    `json:"name" bson:"name" db:"name"`
	Address   string    `json:"address" bson:"address" db:"address"`
	Phone     string    `json:"phone" bson:"phone" db:"phone"`
	Email     string    `json:"email" bson:"email" db:"email"`
	Logo      string    `json:"logo" bson:"logo" db:"logo"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" db:"updated_at"`
}
