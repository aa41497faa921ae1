// Command seed provisions the reference data a fresh deployment needs:
// the closed set of field types, the cars category and its field
// definitions. Safe to re-run; rows are matched by key and updated in place.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"adsouq/internal/config"
	"adsouq/internal/models"
	"adsouq/internal/repositories"
	"adsouq/internal/services/schema"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type choice struct {
	Value       string `json:"value"`
	LabelEn     string `json:"label_en"`
	LabelAr     string `json:"label_ar,omitempty"`
	ParentValue string `json:"parent_value,omitempty"`
}

type fieldSeed struct {
	Key           string
	TypeKey       string
	LabelEn       string
	LabelAr       string
	Required      bool
	OrderIndex    int
	VisiblePublic bool
	Choices       any
	Validation    map[string]any
}

func main() {
	config.LoadEnv()
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	db := repositories.DB
	ctx := context.Background()

	typeIDs, err := seedFieldTypes(db)
	if err != nil {
		log.Fatalf("seeding field types failed: %v", err)
	}

	catID, err := seedCategory(db, "cars", "Cars", "سيارات")
	if err != nil {
		log.Fatalf("seeding category failed: %v", err)
	}

	if err := seedCarFields(db, catID, typeIDs); err != nil {
		log.Fatalf("seeding car fields failed: %v", err)
	}

	// Choice lists changed shape; drop every cached snapshot, not just cars.
	if err := repositories.Cache.DeleteMany(ctx, schema.CacheKey("*")); err != nil {
		log.Printf("cache invalidation failed: %v", err)
	}

	log.Println("seed complete")
}

func seedFieldTypes(db *gorm.DB) (map[string]uint, error) {
	types := []models.FieldType{
		{Key: models.FieldTypeText, Name: "Text"},
		{Key: models.FieldTypeTextarea, Name: "Textarea"},
		{Key: models.FieldTypeNumber, Name: "Number"},
		{Key: models.FieldTypeDate, Name: "Date"},
		{Key: models.FieldTypeSelect, Name: "Select"},
		{Key: models.FieldTypeMultiselect, Name: "Multiselect"},
		{Key: models.FieldTypeCurrency, Name: "Currency"},
		{Key: models.FieldTypeBoolean, Name: "Boolean"},
	}

	ids := make(map[string]uint, len(types))
	for i := range types {
		t := &types[i]
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(t).Error; err != nil {
			return nil, err
		}
		var row models.FieldType
		if err := db.Where("key = ?", t.Key).First(&row).Error; err != nil {
			return nil, err
		}
		ids[t.Key] = row.ID
	}
	return ids, nil
}

func seedCategory(db *gorm.DB, key, nameEn, nameAr string) (uint, error) {
	cat := models.AdCategory{Key: key, NameEn: nameEn, NameAr: nameAr}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"name_en", "name_ar"}),
	}).Create(&cat).Error; err != nil {
		return 0, err
	}
	var row models.AdCategory
	if err := db.Where("key = ?", key).First(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func seedCarFields(db *gorm.DB, categoryID uint, typeIDs map[string]uint) error {
	for _, f := range carFields() {
		typeID, ok := typeIDs[f.TypeKey]
		if !ok {
			return fmt.Errorf("unknown field type %q for field %q", f.TypeKey, f.Key)
		}

		def := models.FieldDefinition{
			CategoryID:    categoryID,
			Key:           f.Key,
			TypeID:        typeID,
			LabelEn:       f.LabelEn,
			LabelAr:       f.LabelAr,
			Required:      f.Required,
			OrderIndex:    f.OrderIndex,
			VisiblePublic: f.VisiblePublic,
		}
		if f.Choices != nil {
			raw, err := json.Marshal(f.Choices)
			if err != nil {
				return err
			}
			def.Choices = datatypes.JSON(raw)
		}
		if f.Validation != nil {
			raw, err := json.Marshal(f.Validation)
			if err != nil {
				return err
			}
			def.Validation = datatypes.JSON(raw)
		}

		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "category_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"type_id", "label_en", "label_ar", "required",
				"order_index", "visible_public", "choices", "validation",
			}),
		}).Create(&def).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func carFields() []fieldSeed {
	return []fieldSeed{
		{
			Key: "make", TypeKey: models.FieldTypeSelect,
			LabelEn: "Make", LabelAr: "الماركة",
			Required: true, OrderIndex: 10, VisiblePublic: true,
			Choices: makeChoices(),
		},
		{
			Key: "model", TypeKey: models.FieldTypeSelect,
			LabelEn: "Model", LabelAr: "الموديل",
			Required: true, OrderIndex: 20, VisiblePublic: true,
			Choices:    modelChoices(),
			Validation: map[string]any{"depends_on": "make"},
		},
		{
			Key: "year", TypeKey: models.FieldTypeSelect,
			LabelEn: "Year", LabelAr: "سنة الصنع",
			Required: true, OrderIndex: 30, VisiblePublic: true,
			Choices: yearChoices(),
		},
		{
			Key: "mileage_km", TypeKey: models.FieldTypeNumber,
			LabelEn: "Mileage (km)", LabelAr: "المسافة المقطوعة",
			Required: true, OrderIndex: 40, VisiblePublic: true,
			Validation: map[string]any{"minimum": 0, "maximum": 2000000},
		},
		{
			Key: "gearbox", TypeKey: models.FieldTypeSelect,
			LabelEn: "Gearbox", LabelAr: "ناقل الحركة",
			Required: true, OrderIndex: 50, VisiblePublic: true,
			Choices: []choice{
				{Value: "automatic", LabelEn: "Automatic", LabelAr: "أوتوماتيك"},
				{Value: "manual", LabelEn: "Manual", LabelAr: "عادي"},
			},
		},
		{
			Key: "fuel", TypeKey: models.FieldTypeSelect,
			LabelEn: "Fuel", LabelAr: "الوقود",
			Required: true, OrderIndex: 60, VisiblePublic: true,
			Choices: []choice{
				{Value: "petrol", LabelEn: "Petrol", LabelAr: "بنزين"},
				{Value: "diesel", LabelEn: "Diesel", LabelAr: "ديزل"},
				{Value: "hybrid", LabelEn: "Hybrid", LabelAr: "هجين"},
				{Value: "electric", LabelEn: "Electric", LabelAr: "كهربائي"},
			},
		},
		{
			Key: "color", TypeKey: models.FieldTypeSelect,
			LabelEn: "Color", LabelAr: "اللون",
			Required: false, OrderIndex: 70, VisiblePublic: true,
			Choices: []string{
				"white", "black", "silver", "grey", "blue", "red",
				"green", "brown", "gold", "other",
			},
		},
		{
			Key: "features", TypeKey: models.FieldTypeMultiselect,
			LabelEn: "Features", LabelAr: "المواصفات",
			Required: false, OrderIndex: 80, VisiblePublic: true,
			Choices: []string{
				"sunroof", "leather_seats", "navigation", "rear_camera",
				"cruise_control", "keyless_entry", "alloy_wheels",
			},
		},
		{
			Key: "accident_free", TypeKey: models.FieldTypeBoolean,
			LabelEn: "Accident free", LabelAr: "خالي من الحوادث",
			Required: false, OrderIndex: 90, VisiblePublic: true,
		},
		{
			Key: "description", TypeKey: models.FieldTypeTextarea,
			LabelEn: "Description", LabelAr: "الوصف",
			Required: false, OrderIndex: 100, VisiblePublic: true,
		},
		{
			Key: "vin", TypeKey: models.FieldTypeText,
			LabelEn: "VIN", LabelAr: "رقم الهيكل",
			Required: false, OrderIndex: 110, VisiblePublic: false,
		},
	}
}

func makeChoices() []choice {
	return []choice{
		{Value: "toyota", LabelEn: "Toyota", LabelAr: "تويوتا"},
		{Value: "nissan", LabelEn: "Nissan", LabelAr: "نيسان"},
		{Value: "hyundai", LabelEn: "Hyundai", LabelAr: "هيونداي"},
		{Value: "kia", LabelEn: "Kia", LabelAr: "كيا"},
		{Value: "bmw", LabelEn: "BMW", LabelAr: "بي إم دبليو"},
		{Value: "mercedes", LabelEn: "Mercedes-Benz", LabelAr: "مرسيدس"},
		{Value: "audi", LabelEn: "Audi", LabelAr: "أودي"},
	}
}

func modelChoices() []choice {
	return []choice{
		{Value: "corolla", LabelEn: "Corolla", ParentValue: "toyota"},
		{Value: "camry", LabelEn: "Camry", ParentValue: "toyota"},
		{Value: "land_cruiser", LabelEn: "Land Cruiser", ParentValue: "toyota"},
		{Value: "sunny", LabelEn: "Sunny", ParentValue: "nissan"},
		{Value: "patrol", LabelEn: "Patrol", ParentValue: "nissan"},
		{Value: "elantra", LabelEn: "Elantra", ParentValue: "hyundai"},
		{Value: "tucson", LabelEn: "Tucson", ParentValue: "hyundai"},
		{Value: "sportage", LabelEn: "Sportage", ParentValue: "kia"},
		{Value: "x5", LabelEn: "X5", ParentValue: "bmw"},
		{Value: "320i", LabelEn: "320i", ParentValue: "bmw"},
		{Value: "e_class", LabelEn: "E-Class", ParentValue: "mercedes"},
		{Value: "a4", LabelEn: "A4", ParentValue: "audi"},
	}
}

func yearChoices() []choice {
	current := time.Now().Year()
	out := make([]choice, 0, current-1970+1)
	for y := current; y >= 1970; y-- {
		v := fmt.Sprintf("%d", y)
		out = append(out, choice{Value: v, LabelEn: v})
	}
	return out
}
