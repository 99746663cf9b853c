package ldb

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/kaspanet/ledgerd/infrastructure/db/database"
)

func TestLevelDBSanity(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestLevelDBSanity")
	defer teardownFunc()

	// Put something into the db
	key := database.MakeBucket().Key([]byte("key"))
	putData := []byte("Hello world!")
	err := ldb.Put(key, putData)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Put returned "+
			"unexpected error: %s", err)
	}

	// Get from the key previously put to
	getData, err := ldb.Get(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Get returned "+
			"unexpected error: %s", err)
	}

	// Make sure that the put data and the get data are equal
	if !bytes.Equal(getData, putData) {
		t.Fatalf("TestLevelDBSanity: get data and "+
			"put data are not equal. Put: %s, got: %s",
			string(putData), string(getData))
	}

	err = ldb.Delete(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Delete returned "+
			"unexpected error: %s", err)
	}
	_, err = ldb.Get(key)
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestLevelDBSanity: Get after Delete "+
			"returned wrong error: %s", err)
	}
}

func TestLevelDBTransactionSanity(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestLevelDBTransactionSanity")
	defer teardownFunc()

	// Case 1. Write in tx and then read directly from the DB
	// Begin a new transaction
	tx, err := ldb.Begin()
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Begin "+
			"unexpectedly failed: %s", err)
	}

	// Put something into the transaction
	key := database.MakeBucket().Key([]byte("key"))
	putData := []byte("Hello world!")
	err = tx.Put(key, putData)
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Put "+
			"returned unexpected error: %s", err)
	}

	// Get from the key previously put to. Since the tx is not
	// yet committed, this should return ErrNotFound.
	_, err = ldb.Get(key)
	if err == nil {
		t.Fatalf("TestLevelDBTransactionSanity: Get " +
			"unexpectedly succeeded")
	}
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestLevelDBTransactionSanity: Get "+
			"returned wrong error: %s", err)
	}

	// Commit the transaction
	err = tx.Commit()
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Commit "+
			"returned unexpected error: %s", err)
	}

	// Get from the key previously put to. Now that the tx was
	// committed, this should succeed.
	getData, err := ldb.Get(key)
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Get "+
			"returned unexpected error: %s", err)
	}

	// Make sure that the put data and the get data are equal
	if !bytes.Equal(getData, putData) {
		t.Fatalf("TestLevelDBTransactionSanity: get "+
			"data and put data are not equal. Put: %s, got: %s",
			string(putData), string(getData))
	}

	// Case 2. Write directly to the DB and then read from a tx
	// Put something into the db
	key = database.MakeBucket().Key([]byte("key2"))
	putData = []byte("Goodbye world!")
	err = ldb.Put(key, putData)
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Put "+
			"returned unexpected error: %s", err)
	}

	// Begin a new transaction
	tx, err = ldb.Begin()
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Begin "+
			"unexpectedly failed: %s", err)
	}

	// Get from the key previously put to
	getData, err = tx.Get(key)
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Get "+
			"returned unexpected error: %s", err)
	}

	// Make sure that the put data and the get data are equal
	if !bytes.Equal(getData, putData) {
		t.Fatalf("TestLevelDBTransactionSanity: get "+
			"data and put data are not equal. Put: %s, got: %s",
			string(putData), string(getData))
	}

	// Rollback the transaction
	err = tx.Rollback()
	if err != nil {
		t.Fatalf("TestLevelDBTransactionSanity: Rollback "+
			"returned unexpected error: %s", err)
	}
}

func TestLevelDBRollbackDiscardsWrites(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestLevelDBRollbackDiscardsWrites")
	defer teardownFunc()

	tx, err := ldb.Begin()
	if err != nil {
		t.Fatalf("Begin: %s", err)
	}
	// Make sure RollbackUnlessClosed is a no-op after the explicit rollback
	defer func() {
		err := tx.RollbackUnlessClosed()
		if err != nil {
			t.Fatalf("RollbackUnlessClosed: %s", err)
		}
	}()

	key := database.MakeBucket([]byte("bucket")).Key([]byte("discarded"))
	err = tx.Put(key, []byte("value"))
	if err != nil {
		t.Fatalf("Put: %s", err)
	}
	err = tx.Rollback()
	if err != nil {
		t.Fatalf("Rollback: %s", err)
	}

	exists, err := ldb.Has(key)
	if err != nil {
		t.Fatalf("Has: %s", err)
	}
	if exists {
		t.Fatalf("TestLevelDBRollbackDiscardsWrites: key exists after rollback")
	}

	err = tx.Commit()
	if err == nil || !strings.Contains(err.Error(), "closed transaction") {
		t.Fatalf("TestLevelDBRollbackDiscardsWrites: Commit after Rollback "+
			"returned wrong error: %v", err)
	}
}

func TestLevelDBReopen(t *testing.T) {
	path := t.TempDir()
	ldb, err := NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("NewLevelDB: %s", err)
	}

	bucket := database.MakeBucket([]byte("persisted"))
	for i := 0; i < 5; i++ {
		err := ldb.Put(bucket.Key([]byte(fmt.Sprintf("key%d", i))), []byte{byte(i)})
		if err != nil {
			t.Fatalf("Put: %s", err)
		}
	}
	err = ldb.Close()
	if err != nil {
		t.Fatalf("Close: %s", err)
	}

	ldb, err = NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("NewLevelDB after reopen: %s", err)
	}
	defer ldb.Close()

	for i := 0; i < 5; i++ {
		value, err := ldb.Get(bucket.Key([]byte(fmt.Sprintf("key%d", i))))
		if err != nil {
			t.Fatalf("Get after reopen: %s", err)
		}
		if !bytes.Equal(value, []byte{byte(i)}) {
			t.Fatalf("TestLevelDBReopen: key%d has value %x", i, value)
		}
	}
}

func TestMemoryDBIsolation(t *testing.T) {
	first, err := NewMemoryDB()
	if err != nil {
		t.Fatalf("NewMemoryDB: %s", err)
	}
	defer first.Close()
	second, err := NewMemoryDB()
	if err != nil {
		t.Fatalf("NewMemoryDB: %s", err)
	}
	defer second.Close()

	key := database.MakeBucket().Key([]byte("key"))
	err = first.Put(key, []byte("value"))
	if err != nil {
		t.Fatalf("Put: %s", err)
	}
	exists, err := second.Has(key)
	if err != nil {
		t.Fatalf("Has: %s", err)
	}
	if exists {
		t.Fatalf("TestMemoryDBIsolation: key leaked between in-memory databases")
	}
}
