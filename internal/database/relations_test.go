package database

import "testing"

func TestRecordArticleRelation(t *testing.T) {
	db := openTestDB(t)

	if err := db.RecordArticleRelation("aaa", "bbb", RelationSameStory, 0.85); err != nil {
		t.Fatalf("record relation: %v", err)
	}

	relations, err := db.GetRelations("aaa")
	if err != nil {
		t.Fatalf("get relations: %v", err)
	}
	if len(relations) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(relations))
	}
	if relations[0].RelationType != RelationSameStory {
		t.Errorf("expected same_story, got %q", relations[0].RelationType)
	}
	if relations[0].Similarity != 0.85 {
		t.Errorf("expected similarity 0.85, got %v", relations[0].Similarity)
	}
}

func TestRecordArticleRelationDuplicateIgnored(t *testing.T) {
	db := openTestDB(t)

	db.RecordArticleRelation("aaa", "bbb", RelationRelatedTopic, 0.55)
	if err := db.RecordArticleRelation("aaa", "bbb", RelationSameStory, 0.9); err != nil {
		t.Fatalf("duplicate insert should be ignored, got: %v", err)
	}

	relations, _ := db.GetRelations("bbb")
	if len(relations) != 1 {
		t.Fatalf("expected 1 relation after duplicate insert, got %d", len(relations))
	}
	if relations[0].RelationType != RelationRelatedTopic {
		t.Errorf("expected original relation kept, got %q", relations[0].RelationType)
	}
}

func TestGetRelationsMatchesEitherSide(t *testing.T) {
	db := openTestDB(t)

	db.RecordArticleRelation("aaa", "bbb", RelationSameStory, 0.8)
	db.RecordArticleRelation("ccc", "aaa", RelationRelatedTopic, 0.6)

	relations, _ := db.GetRelations("aaa")
	if len(relations) != 2 {
		t.Errorf("expected 2 relations involving aaa, got %d", len(relations))
	}
}
